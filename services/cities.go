package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SaudiCities is the shared list behind every city select.
var SaudiCities = []string{
	"Riyadh", "Jeddah", "Mecca", "Medina", "Dammam", "Khobar", "Dhahran", "Taif", "Tabuk",
	"Buraidah", "Unaizah", "Khamis Mushait", "Abha", "Hail", "Hafar Al-Batin", "Jubail",
	"Al Qatif", "Al Kharj", "Najran", "Jazan", "Yanbu", "Al Ahsa", "Hofuf", "Al Mubarraz",
	"Arar", "Sakaka", "Al Bahah", "Bisha", "Qurayyat", "Al Majma'ah", "Ad Dawadimi",
	"Rabigh", "Al Qunfudhah", "Al Lith", "Sabya", "Abu Arish", "Turaif", "Al Wajh", "Duba",
	"Umluj", "Al Ula", "Ras Tanura", "Khafji", "Shaqra", "Al Zulfi", "Wadi Al-Dawasir",
}

var cityIndex = func() map[string]string {
	m := make(map[string]string, len(SaudiCities))
	for _, c := range SaudiCities {
		m[strings.ToLower(c)] = c
	}
	return m
}()

var cityCaser = cases.Title(language.Und)

// NormalizeCity returns the canonical spelling of a listed city and whether it is listed.
// Unlisted input is title-cased and returned with false.
func NormalizeCity(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if c, ok := cityIndex[strings.ToLower(s)]; ok {
		return c, true
	}
	return cityCaser.String(s), false
}

// IsSaudiCity reports whether s names a listed city, ignoring case and extra spaces.
func IsSaudiCity(s string) bool {
	_, ok := NormalizeCity(s)
	return ok
}

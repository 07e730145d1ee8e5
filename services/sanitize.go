package services

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcOnce   sync.Once
	ugcPolicy *bluemonday.Policy
	textOnce  sync.Once
	textOnly  *bluemonday.Policy
)

// SanitizeHTML keeps the markup a cart summary needs and strips everything else.
func SanitizeHTML(s string) string {
	ugcOnce.Do(func() { ugcPolicy = bluemonday.UGCPolicy() })
	return ugcPolicy.Sanitize(s)
}

// SanitizeText strips all markup from free text such as messages and notes.
// Entity-encoded markup is decoded before stripping, so it cannot survive as live tags.
func SanitizeText(s string) string {
	textOnce.Do(func() { textOnly = bluemonday.StrictPolicy() })
	out := s
	for i := 0; i < 3; i++ {
		next := html.UnescapeString(textOnly.Sanitize(html.UnescapeString(out)))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

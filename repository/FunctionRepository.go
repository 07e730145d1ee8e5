package repository

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateQuoteID returns Q<yyyymmdd>-<1000..9999>. Callers retry on collision.
func GenerateQuoteID(now time.Time) string {
	seq := rand.Intn(9000) + 1000
	return fmt.Sprintf("Q%s-%d", now.Format("20060102"), seq)
}

// GenerateProjectID returns p_<unix millis>.
func GenerateProjectID(now time.Time) string {
	return fmt.Sprintf("p_%d", now.UnixMilli())
}

// GenerateCartItemID returns <type>:<uuid>.
func GenerateCartItemID(productType string) string {
	return strings.ToLower(productType) + ":" + uuid.NewString()
}

// GenerateSessionID returns a random session identifier.
func GenerateSessionID() string {
	return uuid.NewString()
}

package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateHoldToken returns an opaque ownership token for a set of seat leases.
func GenerateHoldToken() string {
	return uuid.NewString()
}

// ==================== ORDER REFERENCES ====================

// GenerateOrderRef creates a booking reference with timestamp.
// Format: BOOK-YYYYMMDD-HHMMSS-RANDOM
func GenerateOrderRef() string {
	return generateRef("BOOK")
}

// GeneratePaymentOrderID creates a provider-facing payment order id.
// Format: PAY-YYYYMMDD-HHMMSS-RANDOM
func GeneratePaymentOrderID() string {
	return generateRef("PAY")
}

func generateRef(prefix string) string {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("%s-%s-%s-%s", prefix, datePart, timePart, randomPart)
}

package utils

import (
	"strconv"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GeneratePublicID creates the booking reference exposed to customers.
// It is distinct from the row id so internal ids never leak.
func GeneratePublicID() uuid.UUID {
	return uuid.New()
}

// GenerateGuestToken creates the secret paired with the customer email
// for guest self-service actions. Shown exactly once, at reservation time.
func GenerateGuestToken() uuid.UUID {
	return uuid.New()
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== QUERY HELPERS ====================

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

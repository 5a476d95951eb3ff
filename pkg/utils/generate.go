package utils

import (
	"github.com/google/uuid"
)

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateSessionToken returns a fresh opaque bearer token
func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

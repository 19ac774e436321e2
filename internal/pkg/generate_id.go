package pkg

import "github.com/google/uuid"

// GenerateGameID - returns an opaque token suitable for a shareable game link.
func GenerateGameID() string {
	return uuid.NewString()
}

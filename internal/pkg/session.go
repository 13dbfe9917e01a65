package pkg

import "github.com/google/uuid"

// GenerateNewSessionID returns a random identifier for the local player.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type ChallengeID = uuid.UUID

// NewID returns a time-ordered identifier (UUIDv7) so ids sort by creation.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

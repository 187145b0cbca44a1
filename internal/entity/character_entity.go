package entity

import (
	"time"

	"github.com/google/uuid"
)

type CharacterVisibility string

const (
	CharacterVisibilityPublic  CharacterVisibility = "public"
	CharacterVisibilityPrivate CharacterVisibility = "private"
)

type Character struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Name        string
	Tagline     string
	Description string
	Greeting    string
	Visibility  CharacterVisibility

	// Generation parameters consumed by the downstream text-generation service.
	Temperature       float64
	TopP              float64
	TopK              int
	FrequencyPenalty  float64
	PresencePenalty   float64
	RepetitionPenalty float64
	MinP              float64
	TopA              float64
	MaxTokens         int

	Tags []string

	// Counters are maintained by the chat and likes collaborators, only read here.
	InteractionCount int
	LikeCount        int

	AvatarImageURL *string
	BannerImageURL *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CharacterWithOwner is the denormalized row shape returned by tag search.
// OwnerName is nullable since the owning account may be deleted or anonymized.
type CharacterWithOwner struct {
	Id               uuid.UUID
	Name             string
	Tagline          string
	AvatarImageURL   *string
	InteractionCount int
	CreatedAt        time.Time
	OwnerName        *string
	Tags             []string
	UserId           uuid.UUID
}

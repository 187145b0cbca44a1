package dto

import (
	"time"

	"github.com/google/uuid"
)

// FilePayload carries an in-memory uploaded file from the form layer.
type FilePayload struct {
	Filename string
	Data     []byte
}

func (f *FilePayload) IsEmpty() bool {
	return f == nil || len(f.Data) == 0
}

type CreateCharacterRequest struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Tagline     string `json:"tagline" form:"tagline" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Greeting    string `json:"greeting" form:"greeting" validate:"required"`
	Visibility  string `json:"visibility" form:"visibility" validate:"omitempty,oneof=public private"`

	Temperature       *float64 `json:"temperature" form:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP              *float64 `json:"top_p" form:"top_p" validate:"omitempty,gte=0,lte=1"`
	TopK              *int     `json:"top_k" form:"top_k" validate:"omitempty,gte=0"`
	FrequencyPenalty  *float64 `json:"frequency_penalty" form:"frequency_penalty" validate:"omitempty,gte=-2,lte=2"`
	PresencePenalty   *float64 `json:"presence_penalty" form:"presence_penalty" validate:"omitempty,gte=-2,lte=2"`
	RepetitionPenalty *float64 `json:"repetition_penalty" form:"repetition_penalty" validate:"omitempty,gte=0,lte=2"`
	MinP              *float64 `json:"min_p" form:"min_p" validate:"omitempty,gte=0,lte=1"`
	TopA              *float64 `json:"top_a" form:"top_a" validate:"omitempty,gte=0,lte=1"`
	MaxTokens         *int     `json:"max_tokens" form:"max_tokens" validate:"omitempty,gte=1"`

	// Raw JSON-encoded tag list as submitted by the form.
	Tags string `json:"tags" form:"tags"`

	Avatar *FilePayload `json:"-" form:"-"`
	Banner *FilePayload `json:"-" form:"-"`
}

// UpdateCharacterRequest has partial-update semantics: nil fields keep their
// stored value.
type UpdateCharacterRequest struct {
	Id uuid.UUID `json:"-"`

	Name        *string `json:"name" form:"name" validate:"omitempty,min=1"`
	Tagline     *string `json:"tagline" form:"tagline" validate:"omitempty,min=1"`
	Description *string `json:"description" form:"description" validate:"omitempty,min=1"`
	Greeting    *string `json:"greeting" form:"greeting" validate:"omitempty,min=1"`
	Visibility  *string `json:"visibility" form:"visibility" validate:"omitempty,oneof=public private"`

	Temperature       *float64 `json:"temperature" form:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP              *float64 `json:"top_p" form:"top_p" validate:"omitempty,gte=0,lte=1"`
	TopK              *int     `json:"top_k" form:"top_k" validate:"omitempty,gte=0"`
	FrequencyPenalty  *float64 `json:"frequency_penalty" form:"frequency_penalty" validate:"omitempty,gte=-2,lte=2"`
	PresencePenalty   *float64 `json:"presence_penalty" form:"presence_penalty" validate:"omitempty,gte=-2,lte=2"`
	RepetitionPenalty *float64 `json:"repetition_penalty" form:"repetition_penalty" validate:"omitempty,gte=0,lte=2"`
	MinP              *float64 `json:"min_p" form:"min_p" validate:"omitempty,gte=0,lte=1"`
	TopA              *float64 `json:"top_a" form:"top_a" validate:"omitempty,gte=0,lte=1"`
	MaxTokens         *int     `json:"max_tokens" form:"max_tokens" validate:"omitempty,gte=1"`

	Tags *string `json:"tags" form:"tags"`

	Avatar *FilePayload `json:"-" form:"-"`
	Banner *FilePayload `json:"-" form:"-"`
}

type CharacterResponse struct {
	Id          uuid.UUID `json:"id"`
	UserId      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	Greeting    string    `json:"greeting"`
	Visibility  string    `json:"visibility"`

	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	FrequencyPenalty  float64 `json:"frequency_penalty"`
	PresencePenalty   float64 `json:"presence_penalty"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	MinP              float64 `json:"min_p"`
	TopA              float64 `json:"top_a"`
	MaxTokens         int     `json:"max_tokens"`

	Tags             []string  `json:"tags"`
	InteractionCount int       `json:"interaction_count"`
	LikeCount        int       `json:"like_count"`
	AvatarImageURL   *string   `json:"avatar_image_url"`
	BannerImageURL   *string   `json:"banner_image_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CharacterSummary is the search result row shape.
type CharacterSummary struct {
	Id               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Tagline          string    `json:"tagline"`
	Description      string    `json:"description"`
	Visibility       string    `json:"visibility"`
	UserId           uuid.UUID `json:"user_id"`
	InteractionCount int       `json:"interaction_count"`
	LikeCount        int       `json:"like_count"`
	Tags             []string  `json:"tags"`
	AvatarImageURL   *string   `json:"avatar_image_url"`
	Greeting         string    `json:"greeting"`
}

// CharacterWithOwnerResponse is the tag search row shape with the owner's
// display name joined in.
type CharacterWithOwnerResponse struct {
	Id               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Tagline          string    `json:"tagline"`
	AvatarImageURL   *string   `json:"avatar_image_url"`
	InteractionCount int       `json:"interaction_count"`
	CreatedAt        time.Time `json:"created_at"`
	UserName         *string   `json:"user_name"`
	Tags             []string  `json:"tags"`
	UserId           uuid.UUID `json:"user_id"`
}

// MediaOrphanedMessage is published when stored media loses its referencing
// row (character deleted or image replaced). The cleanup consumer deletes the
// listed object keys from the blob store.
type MediaOrphanedMessage struct {
	Keys []string `json:"keys"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Character struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Tagline     string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Greeting    string    `gorm:"type:text;not null"`
	Visibility  string    `gorm:"type:varchar(16);not null;default:'public';index"`

	Temperature       float64 `gorm:"not null;default:1.0"`
	TopP              float64 `gorm:"not null;default:1.0"`
	TopK              int     `gorm:"not null;default:0"`
	FrequencyPenalty  float64 `gorm:"not null;default:0.0"`
	PresencePenalty   float64 `gorm:"not null;default:0.0"`
	RepetitionPenalty float64 `gorm:"not null;default:1.0"`
	MinP              float64 `gorm:"not null;default:0.0"`
	TopA              float64 `gorm:"not null;default:0.0"`
	MaxTokens         int     `gorm:"not null;default:600"`

	// Serialized JSON tag list. Kept as plain text so substring search
	// can match against it the same way it matches name and tagline.
	Tags string `gorm:"type:text;not null;default:'[]'"`

	InteractionCount int `gorm:"not null;default:0"`
	LikeCount        int `gorm:"not null;default:0"`

	AvatarImageURL *string `gorm:"type:text"`
	BannerImageURL *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Character) TableName() string {
	return "characters"
}

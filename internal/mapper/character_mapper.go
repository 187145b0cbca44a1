package mapper

import (
	"encoding/json"

	"characterhub-be/internal/entity"
	"characterhub-be/internal/model"
)

type CharacterMapper struct{}

func NewCharacterMapper() *CharacterMapper {
	return &CharacterMapper{}
}

func (m *CharacterMapper) ToEntity(c *model.Character) *entity.Character {
	if c == nil {
		return nil
	}

	return &entity.Character{
		Id:                c.Id,
		UserId:            c.UserId,
		Name:              c.Name,
		Tagline:           c.Tagline,
		Description:       c.Description,
		Greeting:          c.Greeting,
		Visibility:        entity.CharacterVisibility(c.Visibility),
		Temperature:       c.Temperature,
		TopP:              c.TopP,
		TopK:              c.TopK,
		FrequencyPenalty:  c.FrequencyPenalty,
		PresencePenalty:   c.PresencePenalty,
		RepetitionPenalty: c.RepetitionPenalty,
		MinP:              c.MinP,
		TopA:              c.TopA,
		MaxTokens:         c.MaxTokens,
		Tags:              DecodeTags(c.Tags),
		InteractionCount:  c.InteractionCount,
		LikeCount:         c.LikeCount,
		AvatarImageURL:    c.AvatarImageURL,
		BannerImageURL:    c.BannerImageURL,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (m *CharacterMapper) ToModel(c *entity.Character) *model.Character {
	if c == nil {
		return nil
	}

	return &model.Character{
		Id:                c.Id,
		UserId:            c.UserId,
		Name:              c.Name,
		Tagline:           c.Tagline,
		Description:       c.Description,
		Greeting:          c.Greeting,
		Visibility:        string(c.Visibility),
		Temperature:       c.Temperature,
		TopP:              c.TopP,
		TopK:              c.TopK,
		FrequencyPenalty:  c.FrequencyPenalty,
		PresencePenalty:   c.PresencePenalty,
		RepetitionPenalty: c.RepetitionPenalty,
		MinP:              c.MinP,
		TopA:              c.TopA,
		MaxTokens:         c.MaxTokens,
		Tags:              EncodeTags(c.Tags),
		InteractionCount:  c.InteractionCount,
		LikeCount:         c.LikeCount,
		AvatarImageURL:    c.AvatarImageURL,
		BannerImageURL:    c.BannerImageURL,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (m *CharacterMapper) ToEntities(characters []*model.Character) []*entity.Character {
	entities := make([]*entity.Character, len(characters))
	for i, c := range characters {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

// EncodeTags serializes a tag list for storage. A nil list encodes as "[]".
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// DecodeTags deserializes the stored tag column. Malformed stored text
// degrades to an empty list instead of failing the read.
func DecodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

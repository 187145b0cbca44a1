package service

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"time"

	"characterhub-be/internal/apperr"
	"characterhub-be/internal/constant"
	"characterhub-be/internal/dto"
	"characterhub-be/internal/entity"
	"characterhub-be/internal/pkg/serverutils"
	"characterhub-be/internal/repository/specification"
	"characterhub-be/internal/repository/unitofwork"
	"characterhub-be/pkg/events"
	pkgNats "characterhub-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	DefaultSearchLimit    = 10
	DefaultTagSearchLimit = 500
	defaultTemperature    = 1.0
	defaultTopP           = 1.0
	defaultTopK           = 0
	defaultFreqPenalty    = 0.0
	defaultPresencePen    = 0.0
	defaultRepetitionPen  = 1.0
	defaultMinP           = 0.0
	defaultTopA           = 0.0
	defaultMaxTokens      = 600
)

type ICharacterService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCharacterRequest) (*dto.CharacterResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateCharacterRequest) (*dto.CharacterResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Search(ctx context.Context, userId *uuid.UUID, query string, limit int) ([]*dto.CharacterSummary, error)
	SearchByTags(ctx context.Context, tags []string, limit int) ([]*dto.CharacterWithOwnerResponse, error)
}

type characterService struct {
	uowFactory       unitofwork.RepositoryFactory
	uploadService    IUploadService
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
}

func NewCharacterService(
	uowFactory unitofwork.RepositoryFactory,
	uploadService IUploadService,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
) ICharacterService {
	return &characterService{
		uowFactory:       uowFactory,
		uploadService:    uploadService,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *characterService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCharacterRequest) (*dto.CharacterResponse, error) {
	if userId == uuid.Nil {
		return nil, apperr.Unauthorized("You must be logged in to create a character")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	tags := constant.ParseTagList(req.Tags)

	// Uploads happen before the row is written: a failed upload aborts the
	// create so no character ever references a broken image.
	var avatarURL, bannerURL *string
	if !req.Avatar.IsEmpty() {
		url, err := s.uploadService.Upload(ctx, req.Avatar.Filename, req.Avatar.Data)
		if err != nil {
			return nil, apperr.Upload("Failed to upload avatar image", err)
		}
		avatarURL = &url
	}
	if !req.Banner.IsEmpty() {
		url, err := s.uploadService.Upload(ctx, req.Banner.Filename, req.Banner.Data)
		if err != nil {
			return nil, apperr.Upload("Failed to upload banner image", err)
		}
		bannerURL = &url
	}

	visibility := entity.CharacterVisibilityPublic
	if req.Visibility != "" {
		visibility = entity.CharacterVisibility(req.Visibility)
	}

	now := time.Now()
	character := entity.Character{
		Id:                uuid.New(),
		UserId:            userId,
		Name:              req.Name,
		Tagline:           req.Tagline,
		Description:       req.Description,
		Greeting:          req.Greeting,
		Visibility:        visibility,
		Temperature:       floatOrDefault(req.Temperature, defaultTemperature),
		TopP:              floatOrDefault(req.TopP, defaultTopP),
		TopK:              intOrDefault(req.TopK, defaultTopK),
		FrequencyPenalty:  floatOrDefault(req.FrequencyPenalty, defaultFreqPenalty),
		PresencePenalty:   floatOrDefault(req.PresencePenalty, defaultPresencePen),
		RepetitionPenalty: floatOrDefault(req.RepetitionPenalty, defaultRepetitionPen),
		MinP:              floatOrDefault(req.MinP, defaultMinP),
		TopA:              floatOrDefault(req.TopA, defaultTopA),
		MaxTokens:         intOrDefault(req.MaxTokens, defaultMaxTokens),
		Tags:              tags,
		InteractionCount:  0,
		LikeCount:         0,
		AvatarImageURL:    avatarURL,
		BannerImageURL:    bannerURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CharacterRepository().Create(ctx, &character); err != nil {
		return nil, apperr.Persistence("Failed to create character", err)
	}

	s.publishLifecycleEvent(ctx, "CHARACTER_CREATED", &character)

	return characterToResponse(&character), nil
}

func (s *characterService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateCharacterRequest) (*dto.CharacterResponse, error) {
	if userId == uuid.Nil {
		return nil, apperr.Unauthorized("You must be logged in to update a character")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Ownership is checked against the freshly read row, not the token alone.
	character, err := uow.CharacterRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, apperr.Persistence("Failed to load character", err)
	}
	if character == nil {
		return nil, apperr.NotFound("Character not found")
	}
	if character.UserId != userId {
		return nil, apperr.Forbidden("You don't have permission to update this character")
	}

	applyCharacterUpdate(character, req)

	// New files replace stored URLs only when non-empty; replaced objects are
	// handed to the async cleanup collaborator.
	var orphanedKeys []string
	if !req.Avatar.IsEmpty() {
		url, err := s.uploadService.Upload(ctx, req.Avatar.Filename, req.Avatar.Data)
		if err != nil {
			return nil, apperr.Upload("Failed to upload avatar image", err)
		}
		if character.AvatarImageURL != nil {
			orphanedKeys = append(orphanedKeys, path.Base(*character.AvatarImageURL))
		}
		character.AvatarImageURL = &url
	}
	if !req.Banner.IsEmpty() {
		url, err := s.uploadService.Upload(ctx, req.Banner.Filename, req.Banner.Data)
		if err != nil {
			return nil, apperr.Upload("Failed to upload banner image", err)
		}
		if character.BannerImageURL != nil {
			orphanedKeys = append(orphanedKeys, path.Base(*character.BannerImageURL))
		}
		character.BannerImageURL = &url
	}

	character.UpdatedAt = time.Now()

	if err := uow.CharacterRepository().Save(ctx, character); err != nil {
		return nil, apperr.Persistence("Failed to update character", err)
	}

	s.publishOrphanedMedia(ctx, orphanedKeys)
	s.publishLifecycleEvent(ctx, "CHARACTER_UPDATED", character)

	return characterToResponse(character), nil
}

func (s *characterService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	if userId == uuid.Nil {
		return apperr.Unauthorized("You must be logged in to delete a character")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	character, err := uow.CharacterRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperr.Persistence("Failed to load character", err)
	}
	if character == nil {
		return apperr.NotFound("Character not found")
	}
	if character.UserId != userId {
		return apperr.Forbidden("You don't have permission to delete this character")
	}

	if err := uow.CharacterRepository().Delete(ctx, id); err != nil {
		return apperr.Persistence("Failed to delete character", err)
	}

	// Row removal is immediate; blob objects are reclaimed asynchronously.
	var orphanedKeys []string
	if character.AvatarImageURL != nil {
		orphanedKeys = append(orphanedKeys, path.Base(*character.AvatarImageURL))
	}
	if character.BannerImageURL != nil {
		orphanedKeys = append(orphanedKeys, path.Base(*character.BannerImageURL))
	}
	s.publishOrphanedMedia(ctx, orphanedKeys)
	s.publishLifecycleEvent(ctx, "CHARACTER_DELETED", character)

	return nil
}

func (s *characterService) Search(ctx context.Context, userId *uuid.UUID, query string, limit int) ([]*dto.CharacterSummary, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	characters, err := uow.CharacterRepository().FindAll(ctx,
		specification.CharacterSearch{Query: query},
		specification.VisibleTo{UserID: userId},
	)
	if err != nil {
		return nil, apperr.Persistence("Failed to search characters", err)
	}

	// Rank by interaction count, ties broken by like count, then truncate.
	sort.SliceStable(characters, func(i, j int) bool {
		if characters[i].InteractionCount != characters[j].InteractionCount {
			return characters[i].InteractionCount > characters[j].InteractionCount
		}
		return characters[i].LikeCount > characters[j].LikeCount
	})

	if len(characters) > limit {
		characters = characters[:limit]
	}

	summaries := make([]*dto.CharacterSummary, len(characters))
	for i, c := range characters {
		summaries[i] = &dto.CharacterSummary{
			Id:               c.Id,
			Name:             c.Name,
			Tagline:          c.Tagline,
			Description:      c.Description,
			Visibility:       string(c.Visibility),
			UserId:           c.UserId,
			InteractionCount: c.InteractionCount,
			LikeCount:        c.LikeCount,
			Tags:             c.Tags,
			AvatarImageURL:   c.AvatarImageURL,
			Greeting:         c.Greeting,
		}
	}
	return summaries, nil
}

func (s *characterService) SearchByTags(ctx context.Context, tags []string, limit int) ([]*dto.CharacterWithOwnerResponse, error) {
	if limit <= 0 {
		limit = DefaultTagSearchLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.CharacterRepository().FindAllWithOwner(ctx,
		specification.PublicOnly{},
		specification.AnyTagLike{Tags: tags},
		specification.OrderBy{Field: "characters.interaction_count", Desc: true},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, apperr.Persistence("Failed to search characters by tags", err)
	}

	results := make([]*dto.CharacterWithOwnerResponse, len(rows))
	for i, row := range rows {
		results[i] = &dto.CharacterWithOwnerResponse{
			Id:               row.Id,
			Name:             row.Name,
			Tagline:          row.Tagline,
			AvatarImageURL:   row.AvatarImageURL,
			InteractionCount: row.InteractionCount,
			CreatedAt:        row.CreatedAt,
			UserName:         row.OwnerName,
			Tags:             row.Tags,
			UserId:           row.UserId,
		}
	}
	return results, nil
}

// publishOrphanedMedia hands replaced or dangling object keys to the cleanup
// consumer. Best effort: a publish failure never fails the user operation.
func (s *characterService) publishOrphanedMedia(ctx context.Context, keys []string) {
	if s.publisherService == nil || len(keys) == 0 {
		return
	}

	payload, err := json.Marshal(dto.MediaOrphanedMessage{Keys: keys})
	if err != nil {
		return
	}
	_ = s.publisherService.Publish(ctx, payload)
}

func (s *characterService) publishLifecycleEvent(ctx context.Context, eventType string, character *entity.Character) {
	if s.eventPublisher == nil {
		return
	}

	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"character_id": character.Id,
			"user_id":      character.UserId,
			"name":         character.Name,
		},
		OccurredAt: time.Now(),
	}
	// Lifecycle events are auxiliary; failures must not fail the request.
	_ = s.eventPublisher.Publish(ctx, evt)
}

func applyCharacterUpdate(character *entity.Character, req *dto.UpdateCharacterRequest) {
	if req.Name != nil {
		character.Name = *req.Name
	}
	if req.Tagline != nil {
		character.Tagline = *req.Tagline
	}
	if req.Description != nil {
		character.Description = *req.Description
	}
	if req.Greeting != nil {
		character.Greeting = *req.Greeting
	}
	if req.Visibility != nil {
		character.Visibility = entity.CharacterVisibility(*req.Visibility)
	}
	if req.Temperature != nil {
		character.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		character.TopP = *req.TopP
	}
	if req.TopK != nil {
		character.TopK = *req.TopK
	}
	if req.FrequencyPenalty != nil {
		character.FrequencyPenalty = *req.FrequencyPenalty
	}
	if req.PresencePenalty != nil {
		character.PresencePenalty = *req.PresencePenalty
	}
	if req.RepetitionPenalty != nil {
		character.RepetitionPenalty = *req.RepetitionPenalty
	}
	if req.MinP != nil {
		character.MinP = *req.MinP
	}
	if req.TopA != nil {
		character.TopA = *req.TopA
	}
	if req.MaxTokens != nil {
		character.MaxTokens = *req.MaxTokens
	}
	if req.Tags != nil {
		character.Tags = constant.ParseTagList(*req.Tags)
	}
}

func characterToResponse(c *entity.Character) *dto.CharacterResponse {
	return &dto.CharacterResponse{
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
		Tags:              c.Tags,
		InteractionCount:  c.InteractionCount,
		LikeCount:         c.LikeCount,
		AvatarImageURL:    c.AvatarImageURL,
		BannerImageURL:    c.BannerImageURL,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func floatOrDefault(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func intOrDefault(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

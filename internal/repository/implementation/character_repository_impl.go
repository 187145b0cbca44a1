package implementation

import (
	"context"
	"errors"
	"time"

	"characterhub-be/internal/entity"
	"characterhub-be/internal/mapper"
	"characterhub-be/internal/model"
	"characterhub-be/internal/repository/contract"
	"characterhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CharacterRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CharacterMapper
}

func NewCharacterRepository(db *gorm.DB) contract.CharacterRepository {
	return &CharacterRepositoryImpl{
		db:     db,
		mapper: mapper.NewCharacterMapper(),
	}
}

func (r *CharacterRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CharacterRepositoryImpl) Create(ctx context.Context, character *entity.Character) error {
	m := r.mapper.ToModel(character)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*character = *r.mapper.ToEntity(m)
	return nil
}

func (r *CharacterRepositoryImpl) Save(ctx context.Context, character *entity.Character) error {
	m := r.mapper.ToModel(character)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*character = *r.mapper.ToEntity(m)
	return nil
}

func (r *CharacterRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Character{}).Error
}

func (r *CharacterRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Character, error) {
	var m model.Character
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CharacterRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Character, error) {
	var models []*model.Character
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CharacterRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Character{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// characterOwnerRow is the scan target for the owner join query.
type characterOwnerRow struct {
	Id               uuid.UUID
	Name             string
	Tagline          string
	AvatarImageURL   *string
	InteractionCount int
	CreatedAt        time.Time
	OwnerName        *string
	Tags             string
	UserId           uuid.UUID
}

func (r *CharacterRepositoryImpl) FindAllWithOwner(ctx context.Context, specs ...specification.Specification) ([]*entity.CharacterWithOwner, error) {
	var rows []characterOwnerRow

	query := r.db.WithContext(ctx).
		Model(&model.Character{}).
		Select("characters.id, characters.name, characters.tagline, characters.avatar_image_url, characters.interaction_count, characters.created_at, characters.tags, characters.user_id, users.full_name AS owner_name").
		Joins("LEFT JOIN users ON users.id = characters.user_id")
	query = r.applySpecifications(query, specs...)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]*entity.CharacterWithOwner, len(rows))
	for i, row := range rows {
		results[i] = &entity.CharacterWithOwner{
			Id:               row.Id,
			Name:             row.Name,
			Tagline:          row.Tagline,
			AvatarImageURL:   row.AvatarImageURL,
			InteractionCount: row.InteractionCount,
			CreatedAt:        row.CreatedAt,
			OwnerName:        row.OwnerName,
			Tags:             mapper.DecodeTags(row.Tags),
			UserId:           row.UserId,
		}
	}
	return results, nil
}

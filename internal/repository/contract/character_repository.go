package contract

import (
	"context"

	"characterhub-be/internal/entity"
	"characterhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CharacterRepository interface {
	Create(ctx context.Context, character *entity.Character) error
	Save(ctx context.Context, character *entity.Character) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Character, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Character, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindAllWithOwner returns characters joined with the owning user's
	// display name (nullable when the account is gone).
	FindAllWithOwner(ctx context.Context, specs ...specification.Specification) ([]*entity.CharacterWithOwner, error)
}

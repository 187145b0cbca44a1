package unitofwork

import (
	"context"

	"characterhub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CharacterRepository() contract.CharacterRepository
}

package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// CharacterSearch matches the query case-insensitively as a substring of
// name, tagline, or the serialized tag text. Matching against the serialized
// tags is approximate: a query can hit a fragment of another tag's literal
// encoding, which is accepted behavior.
type CharacterSearch struct {
	Query string
}

func (s CharacterSearch) Apply(db *gorm.DB) *gorm.DB {
	q := "%" + strings.ToLower(s.Query) + "%"
	return db.Where("LOWER(name) LIKE ? OR LOWER(tagline) LIKE ? OR LOWER(tags) LIKE ?", q, q, q)
}

// VisibleTo restricts rows to what the given caller may see: public rows,
// plus the caller's own private rows. A nil UserID means anonymous access.
type VisibleTo struct {
	UserID *uuid.UUID
}

func (s VisibleTo) Apply(db *gorm.DB) *gorm.DB {
	if s.UserID == nil {
		return db.Where("visibility = ?", "public")
	}
	return db.Where("visibility = ? OR (visibility = ? AND user_id = ?)", "public", "private", *s.UserID)
}

type PublicOnly struct{}

func (s PublicOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("characters.visibility = ?", "public")
}

// AnyTagLike matches rows whose serialized tag text contains ANY of the given
// tags as a substring (logical OR). No tags means no constraint.
type AnyTagLike struct {
	Tags []string
}

func (s AnyTagLike) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Tags) == 0 {
		return db
	}

	clauses := make([]string, len(s.Tags))
	args := make([]interface{}, len(s.Tags))
	for i, tag := range s.Tags {
		clauses[i] = "characters.tags LIKE ?"
		args[i] = "%" + tag + "%"
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}

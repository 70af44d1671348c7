// Package directory exposes the read-only user directory that the chat core
// consults for identity data. The chat services never create or mutate
// accounts; they only look users up and enrich messages with display names
// and avatars. Store is a GORM-backed implementation over the local users
// table so a single-binary deployment works without an external identity
// provider.
package directory

import (
	"context"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/repo"
)

// Directory is the identity lookup contract used by the chat services.
type Directory interface {
	// ByID fetches one user, or repo.ErrNotFound.
	ByID(ctx context.Context, id int64) (*domain.User, error)

	// ByEmail fetches one user by email address, or repo.ErrNotFound.
	ByEmail(ctx context.Context, email string) (*domain.User, error)

	// ByIDs fetches users in bulk; missing IDs are skipped.
	ByIDs(ctx context.Context, ids []int64) ([]domain.User, error)

	// Search returns up to limit users other than excludeID whose login,
	// email, or display name contains term (case-insensitive). An empty
	// term matches everyone.
	Search(ctx context.Context, excludeID int64, term string, limit int) ([]domain.User, error)
}

// Store implements Directory over the local users table.
type Store struct {
	DB *gorm.DB
}

// NewStore returns a Directory backed by db.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

// ByID fetches one user, or repo.ErrNotFound.
func (s *Store) ByID(ctx context.Context, id int64) (*domain.User, error) {
	return repo.GetUser(ctx, s.DB, id)
}

// ByEmail fetches one user by email address, or repo.ErrNotFound.
func (s *Store) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, s.DB, email)
}

// ByIDs fetches users in bulk; missing IDs are skipped.
func (s *Store) ByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	return repo.ListUsers(ctx, s.DB, ids)
}

// Search returns up to limit users other than excludeID matching term on
// login, email, or display name. SQLite's LIKE is case-insensitive for
// ASCII, which matches the intended contains semantics.
func (s *Store) Search(ctx context.Context, excludeID int64, term string, limit int) ([]domain.User, error) {
	if term == "" {
		return repo.ListUsersExcept(ctx, s.DB, excludeID, limit)
	}
	pattern := "%" + term + "%"
	var out []domain.User
	err := s.DB.WithContext(ctx).
		Where("id <> ?", excludeID).
		Where("login LIKE ? OR email LIKE ? OR display_name LIKE ?", pattern, pattern, pattern).
		Order("display_name asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

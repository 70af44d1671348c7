package directory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/repo"
)

func newDirectoryDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("dir_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, login, name, email string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, login, name, email, "")
	if err != nil {
		t.Fatalf("seed user %s: %v", login, err)
	}
	return u
}

func TestStore_ByIDAndByEmail(t *testing.T) {
	db := newDirectoryDB(t)
	s := NewStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", "Alice Jones", "alice@example.com")

	got, err := s.ByID(ctx, alice.ID)
	if err != nil || got.Login != "alice" {
		t.Fatalf("ByID = %+v, %v", got, err)
	}
	got, err = s.ByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("ByEmail = %+v, %v", got, err)
	}
	if _, err := s.ByID(ctx, 999); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Search(t *testing.T) {
	db := newDirectoryDB(t)
	s := NewStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", "Alice Jones", "alice@example.com")
	seedUser(t, db, "bob", "Bob Smith", "bob@example.com")
	seedUser(t, db, "bobby", "Robert Brown", "bobby@corp.example.com")

	// Empty term: everyone but the excluded user.
	all, err := s.Search(ctx, alice.ID, "", 20)
	if err != nil || len(all) != 2 {
		t.Fatalf("Search empty = %d users, %v", len(all), err)
	}

	// Matches login, email, or display name.
	got, err := s.Search(ctx, alice.ID, "bob", 20)
	if err != nil || len(got) != 2 {
		t.Fatalf("Search bob = %d users, %v", len(got), err)
	}
	got, err = s.Search(ctx, alice.ID, "Smith", 20)
	if err != nil || len(got) != 1 || got[0].Login != "bob" {
		t.Fatalf("Search Smith = %+v, %v", got, err)
	}

	// Never returns the excluded user.
	got, err = s.Search(ctx, alice.ID, "alice", 20)
	if err != nil || len(got) != 0 {
		t.Fatalf("Search alice should exclude self, got %+v, %v", got, err)
	}

	// Limit respected.
	got, err = s.Search(ctx, alice.ID, "bob", 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("Search limited = %d users, %v", len(got), err)
	}
}

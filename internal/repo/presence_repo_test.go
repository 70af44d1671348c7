package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teamchat/go-team-chat/internal/domain"
)

func TestTouchActivity_UpsertsAndOverwrites(t *testing.T) {
	db := newRepoDB(t, &domain.UserActivity{})
	ctx := context.Background()

	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Minute)

	if err := TouchActivity(ctx, db, 1, t1); err != nil {
		t.Fatalf("first TouchActivity: %v", err)
	}
	got, err := LastActive(ctx, db, 1)
	if err != nil || !got.Equal(t1) {
		t.Fatalf("LastActive = %v, %v", got, err)
	}

	if err := TouchActivity(ctx, db, 1, t2); err != nil {
		t.Fatalf("second TouchActivity: %v", err)
	}
	got, err = LastActive(ctx, db, 1)
	if err != nil || !got.Equal(t2) {
		t.Fatalf("LastActive after upsert = %v, %v", got, err)
	}

	// Single row per user.
	var n int64
	db.Model(&domain.UserActivity{}).Where("user_id = ?", 1).Count(&n)
	if n != 1 {
		t.Fatalf("expected a single activity row, got %d", n)
	}
}

func TestLastActive_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.UserActivity{})
	if _, err := LastActive(context.Background(), db, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_LookupsAndContactableList(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	alice, err := CreateUser(ctx, db, "alice", "Alice", "alice@example.com", "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, db, "bob", "Bob", "bob@example.com", ""); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, db, "carol", "Carol", "carol@example.com", ""); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := GetUserByEmail(ctx, db, "alice@example.com")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("GetUserByEmail = %+v, %v", got, err)
	}
	if _, err := GetUserByEmail(ctx, db, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	others, err := ListUsersExcept(ctx, db, alice.ID, 20)
	if err != nil {
		t.Fatalf("ListUsersExcept: %v", err)
	}
	if len(others) != 2 {
		t.Fatalf("expected 2 other users, got %d", len(others))
	}
	for _, u := range others {
		if u.ID == alice.ID {
			t.Fatalf("ListUsersExcept returned the excluded user: %+v", u)
		}
	}
	if others[0].DisplayName != "Bob" || others[1].DisplayName != "Carol" {
		t.Fatalf("expected display-name order, got %+v", others)
	}
}

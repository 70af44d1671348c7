package repo

import (
	"context"
	"testing"
	"time"

	"github.com/teamchat/go-team-chat/internal/domain"
)

func TestRoomsStats(t *testing.T) {
	db := newRepoDB(t, &domain.Room{}, &domain.RoomMember{})
	ctx := context.Background()

	// Empty.
	count, maxUpd, err := RoomsStats(ctx, db, 1)
	if err != nil || count != 0 || maxUpd != nil {
		t.Fatalf("empty stats = (%d, %v, %v)", count, maxUpd, err)
	}

	a, _ := CreateRoom(ctx, db, 1, "A", "", false)
	b, _ := CreateRoom(ctx, db, 1, "B", "", false)
	for _, rid := range []int64{a.ID, b.ID} {
		if _, err := AddMember(ctx, db, rid, 1, false); err != nil {
			t.Fatalf("AddMember: %v", err)
		}
	}
	latest := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	if err := TouchRoom(ctx, db, b.ID, latest); err != nil {
		t.Fatalf("TouchRoom: %v", err)
	}

	count, maxUpd, err = RoomsStats(ctx, db, 1)
	if err != nil {
		t.Fatalf("RoomsStats: %v", err)
	}
	if count != 2 || maxUpd == nil || !maxUpd.Equal(latest) {
		t.Fatalf("stats = (%d, %v)", count, maxUpd)
	}
}

func TestConversationsStats(t *testing.T) {
	db := newRepoDB(t, &domain.Conversation{})
	ctx := context.Background()

	count, maxUpd, err := ConversationsStats(ctx, db, 1)
	if err != nil || count != 0 || maxUpd != nil {
		t.Fatalf("empty stats = (%d, %v, %v)", count, maxUpd, err)
	}

	ab, _ := CreateConversation(ctx, db, 1, 2)
	if _, err := CreateConversation(ctx, db, 3, 4); err != nil { // not user 1's
		t.Fatalf("seed: %v", err)
	}
	latest := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	if err := TouchConversation(ctx, db, ab.ID, latest); err != nil {
		t.Fatalf("TouchConversation: %v", err)
	}

	count, maxUpd, err = ConversationsStats(ctx, db, 1)
	if err != nil {
		t.Fatalf("ConversationsStats: %v", err)
	}
	if count != 1 || maxUpd == nil || !maxUpd.Equal(latest) {
		t.Fatalf("stats = (%d, %v)", count, maxUpd)
	}
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamchat/go-team-chat/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateRoom_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	room, err := CreateRoom(context.Background(), db, 1, "General", "", false)
	if err == nil || room != nil {
		t.Fatalf("expected error creating without table, got room=%v err=%v", room, err)
	}
}

func TestCreateRoom_Success_PersistsAndSetsFields(t *testing.T) {
	db := newRepoDB(t, &domain.Room{})

	start := time.Now().UTC().Add(-time.Minute)
	room, err := CreateRoom(context.Background(), db, 7, "General", "All hands", false)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.ID == 0 || room.CreatedBy != 7 || room.Name != "General" || room.IsPrivate {
		t.Fatalf("unexpected Room fields: %+v", room)
	}
	if room.CreatedAt.Before(start) || room.UpdatedAt.Before(start) {
		t.Fatalf("timestamps seem unset: %+v", room)
	}
	// round-trip
	got, err := GetRoom(context.Background(), db, room.ID)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if got.Name != "General" || got.Description != "All hands" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestGetRoom_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Room{})
	_, err := GetRoom(context.Background(), db, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRoom_NotFoundAndSuccess(t *testing.T) {
	db := newRepoDB(t, &domain.Room{})

	if err := UpdateRoom(context.Background(), db, 42, "x", "", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	room, err := CreateRoom(context.Background(), db, 1, "Old", "", false)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err := UpdateRoom(context.Background(), db, room.ID, "New", "desc", true); err != nil {
		t.Fatalf("UpdateRoom: %v", err)
	}
	got, err := GetRoom(context.Background(), db, room.ID)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if got.Name != "New" || got.Description != "desc" || !got.IsPrivate {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.UpdatedAt.After(room.CreatedAt) && !got.UpdatedAt.Equal(room.CreatedAt) {
		t.Fatalf("UpdatedAt regressed: %v < %v", got.UpdatedAt, room.CreatedAt)
	}
}

func TestDeleteRoom_CascadesMessagesAndMembers(t *testing.T) {
	db := newRepoDB(t, &domain.Room{}, &domain.RoomMember{}, &domain.RoomMessage{})
	ctx := context.Background()

	room, err := CreateRoom(ctx, db, 1, "Doomed", "", false)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := AddMember(ctx, db, room.ID, 1, true); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := AddMember(ctx, db, room.ID, 2, false); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := CreateRoomMessage(ctx, db, room.ID, 1, "hello"); err != nil {
		t.Fatalf("CreateRoomMessage: %v", err)
	}

	if err := DeleteRoom(ctx, db, room.ID); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}

	if _, err := GetRoom(ctx, db, room.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("room should be gone, got %v", err)
	}
	var nMembers, nMsgs int64
	db.Model(&domain.RoomMember{}).Where("room_id = ?", room.ID).Count(&nMembers)
	db.Model(&domain.RoomMessage{}).Where("room_id = ?", room.ID).Count(&nMsgs)
	if nMembers != 0 || nMsgs != 0 {
		t.Fatalf("cascade left rows: members=%d messages=%d", nMembers, nMsgs)
	}
}

func TestDeleteRoom_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Room{}, &domain.RoomMember{}, &domain.RoomMessage{})
	if err := DeleteRoom(context.Background(), db, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddMember_DuplicatePairFails(t *testing.T) {
	db := newRepoDB(t, &domain.RoomMember{})
	ctx := context.Background()

	if _, err := AddMember(ctx, db, 1, 2, false); err != nil {
		t.Fatalf("first AddMember: %v", err)
	}
	if _, err := AddMember(ctx, db, 1, 2, false); err == nil {
		t.Fatal("expected unique-constraint error for duplicate membership")
	}
}

func TestRemoveMember_ReportsRemoval(t *testing.T) {
	db := newRepoDB(t, &domain.RoomMember{})
	ctx := context.Background()

	if _, err := AddMember(ctx, db, 1, 2, false); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	removed, err := RemoveMember(ctx, db, 1, 2)
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = RemoveMember(ctx, db, 1, 2)
	if err != nil || removed {
		t.Fatalf("second removal should be a no-op, got removed=%v err=%v", removed, err)
	}
}

func TestIsMemberAndCount(t *testing.T) {
	db := newRepoDB(t, &domain.RoomMember{})
	ctx := context.Background()

	for _, uid := range []int64{10, 11, 12} {
		if _, err := AddMember(ctx, db, 5, uid, false); err != nil {
			t.Fatalf("AddMember %d: %v", uid, err)
		}
	}

	ok, err := IsMember(ctx, db, 5, 11)
	if err != nil || !ok {
		t.Fatalf("IsMember(5,11) = %v, %v", ok, err)
	}
	ok, err = IsMember(ctx, db, 5, 99)
	if err != nil || ok {
		t.Fatalf("IsMember(5,99) = %v, %v", ok, err)
	}
	n, err := CountMembers(ctx, db, 5)
	if err != nil || n != 3 {
		t.Fatalf("CountMembers = %d, %v", n, err)
	}
	ids, err := ListMemberIDs(ctx, db, 5)
	if err != nil || len(ids) != 3 {
		t.Fatalf("ListMemberIDs = %v, %v", ids, err)
	}
}

func TestListUserRooms_OrderedByActivity(t *testing.T) {
	db := newRepoDB(t, &domain.Room{}, &domain.RoomMember{})
	ctx := context.Background()

	a, _ := CreateRoom(ctx, db, 1, "A", "", false)
	b, _ := CreateRoom(ctx, db, 1, "B", "", false)
	c, _ := CreateRoom(ctx, db, 2, "C", "", false) // user 1 not a member

	for _, rid := range []int64{a.ID, b.ID} {
		if _, err := AddMember(ctx, db, rid, 1, false); err != nil {
			t.Fatalf("AddMember: %v", err)
		}
	}
	if _, err := AddMember(ctx, db, c.ID, 2, false); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// Make A the most recently active.
	if err := TouchRoom(ctx, db, a.ID, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("TouchRoom: %v", err)
	}

	rooms, err := ListUserRooms(ctx, db, 1)
	if err != nil {
		t.Fatalf("ListUserRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].ID != a.ID || rooms[1].ID != b.ID {
		t.Fatalf("expected activity order [A B], got %+v", rooms)
	}
}

func TestListPublicRooms_ExcludesPrivate(t *testing.T) {
	db := newRepoDB(t, &domain.Room{})
	ctx := context.Background()

	if _, err := CreateRoom(ctx, db, 1, "Open", "", false); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := CreateRoom(ctx, db, 1, "Secret", "", true); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	rooms, err := ListPublicRooms(ctx, db)
	if err != nil {
		t.Fatalf("ListPublicRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "Open" {
		t.Fatalf("expected only the public room, got %+v", rooms)
	}
}

func TestListRoomMessages_SinceIDAndChronology(t *testing.T) {
	db := newRepoDB(t, &domain.RoomMessage{})
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 5; i++ {
		m, err := CreateRoomMessage(ctx, db, 9, 1, fmt.Sprintf("m%d", i))
		if err != nil {
			t.Fatalf("CreateRoomMessage: %v", err)
		}
		ids = append(ids, m.ID)
	}

	// Full window: chronological and limited.
	msgs, err := ListRoomMessages(ctx, db, 9, 3, 0)
	if err != nil {
		t.Fatalf("ListRoomMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].ID != ids[2] || msgs[2].ID != ids[4] {
		t.Fatalf("expected newest 3 in chronological order, got %+v", msgs)
	}

	// Delta poll.
	msgs, err = ListRoomMessages(ctx, db, 9, 50, ids[2])
	if err != nil {
		t.Fatalf("ListRoomMessages since: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != ids[3] || msgs[1].ID != ids[4] {
		t.Fatalf("expected the 2 messages after ids[2], got %+v", msgs)
	}
}

package repo

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "chat.db"))
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestOpenSQLite_AndAutoMigrate(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	// Every table is usable after migration.
	if _, err := CreateRoom(context.Background(), db, 1, "General", "", false); err != nil {
		t.Fatalf("CreateRoom after migrate: %v", err)
	}
	if _, err := CreateNotification(context.Background(), db, 1, "m", "user_chat_message", ""); err != nil {
		t.Fatalf("CreateNotification after migrate: %v", err)
	}
	if _, err := CreateAIConversation(context.Background(), db, 1, 0, "t"); err != nil {
		t.Fatalf("CreateAIConversation after migrate: %v", err)
	}
}

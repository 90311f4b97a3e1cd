package persistence

import (
	"errors"
	"testing"

	"github.com/seanseanwu5/internet/models"
)

func TestNoopArchive(t *testing.T) {
	archive := NewNoopArchive()

	if err := archive.SaveGameRecord(&models.GameRecord{RoomID: "r1"}); err != nil {
		t.Errorf("Noop save should succeed, got: %v", err)
	}
	if _, err := archive.PlayerStats("alice"); !errors.Is(err, ErrArchiveDisabled) {
		t.Errorf("Expected ErrArchiveDisabled, got: %v", err)
	}
	if err := archive.Close(); err != nil {
		t.Errorf("Noop close should succeed, got: %v", err)
	}
}

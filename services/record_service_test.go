package services

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/seanseanwu5/internet/logger"
	"github.com/seanseanwu5/internet/models"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeArchive struct {
	mu      sync.Mutex
	saved   []*models.GameRecord
	saveErr error
}

func (f *fakeArchive) SaveGameRecord(record *models.GameRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeArchive) PlayerStats(username string) (*models.PlayerStats, error) {
	return &models.PlayerStats{Username: username, TotalGames: 3, Wins: 1}, nil
}

func (f *fakeArchive) Close() error { return nil }

func TestRecordService_RecordFinishedGame(t *testing.T) {
	archive := &fakeArchive{}
	service := NewRecordService(archive)

	service.RecordFinishedGame(&models.GameRecord{RoomID: "r1", Winner: "alice"})
	if len(archive.saved) != 1 {
		t.Fatalf("Expected 1 saved record, got %d", len(archive.saved))
	}

	service.RecordFinishedGame(nil)
	if len(archive.saved) != 1 {
		t.Error("A nil record must not reach the archive")
	}
}

func TestRecordService_SwallowsArchiveErrors(t *testing.T) {
	service := NewRecordService(&fakeArchive{saveErr: errors.New("db down")})

	// 失败只记日志，不 panic 不冒泡
	service.RecordFinishedGame(&models.GameRecord{RoomID: "r2"})
}

func TestRecordService_PlayerStats(t *testing.T) {
	service := NewRecordService(&fakeArchive{})

	stats, err := service.PlayerStats("alice")
	if err != nil {
		t.Fatalf("PlayerStats failed: %v", err)
	}
	if stats.Username != "alice" || stats.TotalGames != 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

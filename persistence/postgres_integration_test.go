package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/seanseanwu5/internet/models"
)

// startPostgres spins up a disposable postgres container. The test is
// skipped when no container runtime is available.
func startPostgres(t *testing.T) (string, int) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bingo"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("skipping, could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	return host, port.Int()
}

func TestPostgresArchives(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	host, port := startPostgres(t)

	// Gorm goes first so AutoMigrate lays out the shared table.
	t.Run("Gorm", func(t *testing.T) {
		archive, err := NewGormArchive(host, port, "postgres", "postgres", "bingo")
		if err != nil {
			t.Fatalf("NewGormArchive failed: %v", err)
		}
		defer archive.Close()

		exerciseArchive(t, archive, "gorm")
	})

	t.Run("SQL", func(t *testing.T) {
		archive, err := NewSQLArchive(host, port, "postgres", "postgres", "bingo")
		if err != nil {
			t.Fatalf("NewSQLArchive failed: %v", err)
		}
		defer archive.Close()

		exerciseArchive(t, archive, "sql")
	})
}

// exerciseArchive runs the save/stats round trip. Usernames are prefixed
// per driver because both drivers write to the same table.
func exerciseArchive(t *testing.T, archive Archive, prefix string) {
	t.Helper()

	winner := prefix + "_alice"
	loser := prefix + "_bob"

	won := &models.GameRecord{
		RoomID:        prefix + "_room1",
		Winner:        winner,
		Players:       []string{winner, loser},
		NumbersCalled: []int{5, 12, 33, 74},
		Duration:      42,
		CreatedAt:     time.Now(),
	}
	if err := archive.SaveGameRecord(won); err != nil {
		t.Fatalf("SaveGameRecord failed: %v", err)
	}

	aborted := &models.GameRecord{
		RoomID:    prefix + "_room2",
		Players:   []string{winner, loser},
		CreatedAt: time.Now(),
	}
	if err := archive.SaveGameRecord(aborted); err != nil {
		t.Fatalf("SaveGameRecord for the aborted game failed: %v", err)
	}

	stats, err := archive.PlayerStats(winner)
	if err != nil {
		t.Fatalf("PlayerStats(%s) failed: %v", winner, err)
	}
	if stats.TotalGames != 2 || stats.Wins != 1 || stats.Losses != 0 {
		t.Errorf("Unexpected stats for %s: %+v", winner, stats)
	}

	stats, err = archive.PlayerStats(loser)
	if err != nil {
		t.Fatalf("PlayerStats(%s) failed: %v", loser, err)
	}
	if stats.TotalGames != 2 || stats.Wins != 0 || stats.Losses != 1 {
		t.Errorf("Unexpected stats for %s: %+v", loser, stats)
	}

	if _, err := archive.PlayerStats(prefix + "_ghost"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound for an unknown player, got: %v", err)
	}
}

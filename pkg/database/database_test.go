package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/scorecard/pkg/database"
)

func TestPingUnreachable(t *testing.T) {
	cfg := database.Config{
		Host:            "127.0.0.1",
		Port:            1,
		Name:            "scorecard",
		User:            "scorecard",
		SSLMode:         "disable",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: "1m",
		ConnTimeout:     "500ms",
	}

	db, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Connection().Close()

	if err := db.Ping(context.Background()); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping = %v, want ErrNotReady", err)
	}
}

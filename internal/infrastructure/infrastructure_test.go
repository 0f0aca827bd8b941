package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/scorecard/internal/config"
	"github.com/JaimeStill/scorecard/internal/infrastructure"
	"github.com/JaimeStill/scorecard/pkg/cache"
	"github.com/JaimeStill/scorecard/pkg/database"
	"github.com/JaimeStill/scorecard/pkg/events"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "scorecard",
			User:            "scorecard",
			Password:        "scorecard",
			SSLMode:         "disable",
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "uploads",
			ConnectionString: azuriteConnString,
		},
		Cache: cache.Config{TTL: "10m", Prefix: "scorecard"},
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Database == nil || infra.Storage == nil {
		t.Fatalf("core systems missing: %+v", infra)
	}
	if infra.Cache.Client() != nil {
		t.Error("cache without an address should be a no-op")
	}
	if _, ok := infra.Events.(*events.KafkaPublisher); ok {
		t.Error("events without brokers should be a no-op")
	}
	if infra.Locks == nil {
		t.Error("Locks is nil")
	}
}

func TestNewInvalidStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not a connection string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Error("expected storage init error")
	}
}

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServiceID != "chainpay-engine" {
		t.Fatalf("service id: got %s", cfg.ServiceID)
	}
	if cfg.HTTPPort != 8080 || cfg.GRPCPort != 9090 {
		t.Fatalf("ports: got http=%d grpc=%d", cfg.HTTPPort, cfg.GRPCPort)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" || len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("dependencies must default to empty: %+v", cfg)
	}
	if cfg.IdempotencyTTL != 7*24*time.Hour {
		t.Fatalf("idempotency ttl: got %v", cfg.IdempotencyTTL)
	}
	if cfg.OutboxPollInterval != 2*time.Second || cfg.OutboxBatchSize != 100 {
		t.Fatalf("outbox settings: got %v / %d", cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
service:
  id: chainpay-test
  http_port: 8181
dependencies:
  postgres_url: postgres://file-host/chainpay
  kafka_brokers:
    - localhost:9092
events:
  topics:
    escrow.disputed: test.topic
engine:
  outbox_poll_seconds: 5
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("POSTGRES_URL", "postgres://env-host/chainpay")
	t.Setenv("HTTP_PORT", "8282")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092, broker-b:9092")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServiceID != "chainpay-test" {
		t.Fatalf("service id: got %s", cfg.ServiceID)
	}
	// Env wins over file.
	if cfg.DatabaseURL != "postgres://env-host/chainpay" {
		t.Fatalf("database url: got %s", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != 8282 {
		t.Fatalf("http port: got %d", cfg.HTTPPort)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker-a:9092" {
		t.Fatalf("kafka brokers: got %v", cfg.KafkaBrokers)
	}
	if cfg.EventTopics["escrow.disputed"] != "test.topic" {
		t.Fatalf("event topics: got %v", cfg.EventTopics)
	}
	if cfg.OutboxPollInterval != 5*time.Second {
		t.Fatalf("outbox poll interval: got %v", cfg.OutboxPollInterval)
	}
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := cfg.Relay
	if r.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", r.HTTPPort, DefaultHTTPPort)
	}
	if r.PushPath != DefaultPushPath {
		t.Errorf("push_path: got %q, want %q", r.PushPath, DefaultPushPath)
	}
	if len(r.Webhooks) != 1 {
		t.Fatalf("webhooks: got %d, want 1", len(r.Webhooks))
	}
	w := r.Webhooks[0]
	if w.Type != "teams" || w.URLEnv != "MSTEAMS_WEBHOOK" || w.Profile != "full" || w.Timeout != 10*time.Second {
		t.Errorf("default webhook: got %+v", w)
	}
	if r.Card.Provider != DefaultProvider {
		t.Errorf("card.provider: got %q, want %q", r.Card.Provider, DefaultProvider)
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `relay:
  http_port: 9090
  push_path: /scc
  log:
    level: debug
    format: text
  auth:
    mode: token
    token_env: PUSH_TOKEN
  card:
    provider: Acme SCC
  webhooks:
    - name: secops
      type: teams
      url_env: SECOPS_WEBHOOK
      profile: full
    - url_env: ONCALL_WEBHOOK
      profile: summary
      timeout: 5s
  kafka:
    enabled: true
    brokers: ["kafka-1:9092", "kafka-2:9092"]
    topic: scc-findings
    group_id: sccrelay
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := cfg.Relay
	if r.HTTPPort != 9090 {
		t.Errorf("http_port: got %d, want 9090", r.HTTPPort)
	}
	if r.PushPath != "/scc" {
		t.Errorf("push_path: got %q, want /scc", r.PushPath)
	}
	if r.Log.Level != "debug" || r.Log.Format != "text" {
		t.Errorf("log: got %+v", r.Log)
	}
	if r.Card.Provider != "Acme SCC" {
		t.Errorf("card.provider: got %q", r.Card.Provider)
	}
	if r.Card.Summary != DefaultSummary {
		t.Errorf("card.summary: got %q, want default", r.Card.Summary)
	}
	if len(r.Webhooks) != 2 {
		t.Fatalf("webhooks: got %d, want 2", len(r.Webhooks))
	}
	second := r.Webhooks[1]
	if second.Name != "teams-1" {
		t.Errorf("webhooks[1].name: got %q, want teams-1", second.Name)
	}
	if second.Type != "teams" {
		t.Errorf("webhooks[1].type: got %q, want teams", second.Type)
	}
	if second.Timeout != 5*time.Second {
		t.Errorf("webhooks[1].timeout: got %v, want 5s", second.Timeout)
	}
	if r.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("webhooks[0].timeout: got %v, want default", r.Webhooks[0].Timeout)
	}
	if !r.Kafka.Enabled || len(r.Kafka.Brokers) != 2 || r.Kafka.Topic != "scc-findings" {
		t.Errorf("kafka: got %+v", r.Kafka)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCCRELAY_HTTP_PORT", "7070")
	t.Setenv("SCCRELAY_LOG_LEVEL", "warn")
	t.Setenv("SCCRELAY_PUSH_PATH", "/pubsub")
	t.Setenv("SCCRELAY_KAFKA_BROKERS", "a:9092,b:9092")

	p := writeConfig(t, `relay:
  http_port: 9090
  log:
    level: debug
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Relay.HTTPPort != 7070 {
		t.Errorf("http_port: got %d, want 7070", cfg.Relay.HTTPPort)
	}
	if cfg.Relay.Log.Level != "warn" {
		t.Errorf("log.level: got %q, want warn", cfg.Relay.Log.Level)
	}
	if cfg.Relay.PushPath != "/pubsub" {
		t.Errorf("push_path: got %q, want /pubsub", cfg.Relay.PushPath)
	}
	if got := cfg.Relay.Kafka.Brokers; len(got) != 2 || got[1] != "b:9092" {
		t.Errorf("kafka.brokers: got %v", got)
	}
}

func TestLoad_BadEnvOverride(t *testing.T) {
	t.Setenv("SCCRELAY_HTTP_PORT", "not-a-port")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric SCCRELAY_HTTP_PORT, got nil")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port out of range", "relay:\n  http_port: 70000\n"},
		{"relative push path", "relay:\n  push_path: push\n"},
		{"push path collides", "relay:\n  push_path: /metrics\n"},
		{"unknown log level", "relay:\n  log:\n    level: chatty\n"},
		{"unknown log format", "relay:\n  log:\n    format: xml\n"},
		{"unknown auth mode", "relay:\n  auth:\n    mode: oauth2\n"},
		{"token without env", "relay:\n  auth:\n    mode: token\n"},
		{"empty webhooks", "relay:\n  webhooks: []\n"},
		{"unknown webhook type", "relay:\n  webhooks:\n    - type: slack\n      url_env: X\n"},
		{"missing url_env", "relay:\n  webhooks:\n    - type: teams\n"},
		{"unknown profile", "relay:\n  webhooks:\n    - url_env: X\n      profile: verbose\n"},
		{"duplicate names", "relay:\n  webhooks:\n    - {name: a, url_env: X}\n    - {name: a, url_env: Y}\n"},
		{"kafka without brokers", "relay:\n  kafka:\n    enabled: true\n    topic: t\n    group_id: g\n"},
		{"kafka without topic", "relay:\n  kafka:\n    enabled: true\n    brokers: [k:9092]\n    group_id: g\n"},
		{"kafka without group", "relay:\n  kafka:\n    enabled: true\n    brokers: [k:9092]\n    topic: t\n"},
		{"bad yaml", "relay: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestWebhookConfig_URL(t *testing.T) {
	t.Setenv("TEAMS_URL", "https://example.webhook.office.com/webhookb2/abc")
	w := WebhookConfig{Type: "teams", URLEnv: "TEAMS_URL"}
	if got := w.URL(); got != "https://example.webhook.office.com/webhookb2/abc" {
		t.Errorf("URL(): got %q", got)
	}
	if got := (WebhookConfig{}).URL(); got != "" {
		t.Errorf("URL() with no URLEnv: got %q, want empty", got)
	}
}

func TestAuthConfig(t *testing.T) {
	t.Setenv("TEST_PUSH_TOKEN", "s3cret")
	a := AuthConfig{Mode: "token", TokenEnv: "TEST_PUSH_TOKEN"}
	if got := a.Token(); got != "s3cret" {
		t.Errorf("Token(): got %q, want s3cret", got)
	}
	if got := a.EffectiveHeader(); got != DefaultAuthHeader {
		t.Errorf("EffectiveHeader(): got %q, want %q", got, DefaultAuthHeader)
	}
	a.Header = "x-custom"
	if got := a.EffectiveHeader(); got != "x-custom" {
		t.Errorf("EffectiveHeader(): got %q, want x-custom", got)
	}
}

func TestWatch_Reload(t *testing.T) {
	p := writeConfig(t, "relay:\n  http_port: 8081\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, p, func(c *Config) {
			select {
			case reloaded <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(p, []byte("relay:\n  http_port: 8082\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	// A truncate-then-write may surface as more than one event; wait for the
	// reload that carries the new content.
	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case c := <-reloaded:
			done = c.Relay.HTTPPort == 8082
		case <-deadline:
			t.Fatal("timed out waiting for reload with http_port 8082")
		}
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

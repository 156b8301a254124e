// Package config loads the relay configuration from the `relay:` section of
// config.yaml.
//
// Config fields:
//   - HTTPPort:   port for the push endpoint, /healthz and /metrics (default 8080)
//   - PushPath:   Pub/Sub push path (default "/push")
//   - Log:        level (debug|info|warn|error) and format (json|text)
//   - Auth:       push authentication; mode "token" reads the shared token from TokenEnv
//   - Card:       provider, summary and image shown on every card
//   - Webhooks:   delivery targets; each has type (teams), url_env, profile (full|summary), timeout
//   - Kafka:      optional topic consumer (brokers, topic, group_id, tls)
//
// Load(path) applies defaults, unmarshals the file (skipped when path is
// empty), applies SCCRELAY_* environment overrides via envconfig, then
// validates. Without a file the relay delivers to the single Teams webhook
// named by $MSTEAMS_WEBHOOK using the full card.
//
// Watch(ctx, path, onChange) uses fsnotify to reload the file on write and
// hands the new Config to onChange; invalid reloads are logged and skipped.
package config

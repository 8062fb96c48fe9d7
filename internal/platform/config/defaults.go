package config

// defaults is the lowest configuration layer. Durations are strings so
// koanf decodes them the same way it decodes YAML and env values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quote-sync",
		"app.version":     "dev",
		"app.environment": "local",

		"storage.driver": "file",
		"storage.path":   "",

		"sync.enabled":       true,
		"sync.interval":      DefaultSyncInterval.String(),
		"sync.fetch_timeout": DefaultSyncFetchTimeout.String(),
		"sync.sources": []map[string]any{
			{"name": "placeholder", "base_url": DefaultSourceBaseURL, "path": "/posts"},
		},

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  2.0,
		"client.retry.jitter_factor":               0.25,
		"client.circuit_breaker.max_failures":      5,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   3,
		"client.transport.max_idle_conns":          100,
		"client.transport.max_idle_conns_per_host": 10,
		"client.transport.idle_conn_timeout":       "90s",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": 1 << 20,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quote-sync.log",
		"log.file.level":       "",
		"log.file.max_size":    100,
		"log.file.max_backups": 3,
		"log.file.max_age":     28,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quote-sync",
		"telemetry.sampling_rate": 1.0,
	}
}

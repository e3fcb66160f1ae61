// Package config provides hierarchical configuration loading for AgentRelay.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the AgentRelay service.
type Config struct {
	Server   Server   `yaml:"server"`
	Auth     Auth     `yaml:"auth"`
	Task     Task     `yaml:"task"`
	Semantic Semantic `yaml:"semantic"`
	Logging  Logging  `yaml:"logging"`
	Breaker  Breaker  `yaml:"breaker"`
	Cache    Cache    `yaml:"cache"`
	Otel     Otel     `yaml:"otel"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	PublicURL string `yaml:"public_url"`
}

// Auth holds the static bearer token gating every route. The token has no
// default; startup fails hard when it is absent.
type Auth struct {
	Token string `yaml:"token"`
}

// Task holds task lifecycle configuration. TTL is recorded for eviction but
// no eviction loop runs yet.
type Task struct {
	TTL time.Duration `yaml:"ttl"`
}

// Semantic holds semantic responder bridge configuration. An empty
// ResponderURL selects the deterministic local template answer.
type Semantic struct {
	Enabled      bool          `yaml:"enabled"`
	ResponderURL string        `yaml:"responder_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds circuit breaker configuration for the responder call.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Cache holds semantic answer cache configuration.
type Cache struct {
	L1MaxSizeMB int64         `yaml:"l1_max_size_mb"`
	AnswerTTL   time.Duration `yaml:"answer_ttl"`
}

// Otel holds OpenTelemetry exporter configuration.
type Otel struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns a Config with sensible default values for local
// development. Auth.Token is deliberately empty: it must be provided.
func Defaults() Config {
	return Config{
		Server: Server{
			Host:      "0.0.0.0",
			Port:      "8080",
			PublicURL: "http://localhost:8080",
		},
		Task: Task{
			TTL: time.Hour,
		},
		Semantic: Semantic{
			Enabled: false,
			Timeout: 15 * time.Second,
		},
		Logging: Logging{
			Level:   "info",
			Service: "agentrelay",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Cache: Cache{
			L1MaxSizeMB: 32,
			AnswerTTL:   5 * time.Minute,
		},
		Otel: Otel{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}

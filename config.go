package guardango

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/n0h4rt/guardango/utils"
)

// Config represents a configuration object.
//
// Every field can be overridden by its GUARD_* environment variable.
type Config struct {
	MaxMessages   int           `json:"max_messages" env:"GUARD_MAX_MESSAGES"`     // Messages allowed per window before a flood mute.
	TimeWindow    int           `json:"time_window" env:"GUARD_TIME_WINDOW"`       // Flood window in seconds.
	WarnLimit     int           `json:"warn_limit" env:"GUARD_WARN_LIMIT"`         // Warnings that escalate to a ban.
	OwnerID       int64         `json:"owner_id" env:"GUARD_OWNER_ID"`             // The only user allowed to broadcast; receives feedback.
	Prefix        string        `json:"prefix" env:"GUARD_PREFIX"`                 // Prefix for commands.
	Rules         string        `json:"rules" env:"GUARD_RULES"`                   // Default rules of a chat.
	Welcome       string        `json:"welcome" env:"GUARD_WELCOME"`               // Default welcome message of a chat.
	RelayURL      string        `json:"relay_url" env:"GUARD_RELAY_URL"`           // Websocket URL of the platform relay.
	Debug         bool          `json:"debug" env:"GUARD_DEBUG"`                   // Debug logging.
	Workers       int           `json:"workers" env:"GUARD_WORKERS"`               // Action delivery workers.
	QueueSize     int           `json:"queue_size" env:"GUARD_QUEUE_SIZE"`         // Capacity of the action queue.
	PendingTTL    time.Duration `json:"pending_ttl" env:"GUARD_PENDING_TTL"`       // How long an Action may stay unacknowledged.
	SweepInterval time.Duration `json:"sweep_interval" env:"GUARD_SWEEP_INTERVAL"` // How often expired state is swept.
}

// Window returns the flood window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.TimeWindow) * time.Second
}

// Normalize fills unset or non-positive fields with their defaults.
func (c *Config) Normalize() {
	if c.MaxMessages <= 0 {
		c.MaxMessages = DEFAULT_MAX_MESSAGES
	}
	if c.TimeWindow <= 0 {
		c.TimeWindow = DEFAULT_TIME_WINDOW
	}
	if c.WarnLimit <= 0 {
		c.WarnLimit = DEFAULT_WARN_LIMIT
	}
	if c.Prefix == "" {
		c.Prefix = DEFAULT_PREFIX
	}
	if c.Rules == "" {
		c.Rules = DEFAULT_RULES
	}
	if c.Welcome == "" {
		c.Welcome = DEFAULT_WELCOME
	}
	if c.Workers <= 0 {
		c.Workers = DEFAULT_WORKERS
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DEFAULT_QUEUE_SIZE
	}
	if c.PendingTTL <= 0 {
		c.PendingTTL = DEFAULT_PENDING_TTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DEFAULT_SWEEP_INTERVAL
	}
}

// LoadConfig loads the configuration.
//
// The JSON file is read first when it exists, then a ".env" file in the working directory
// is loaded if present, then GUARD_* environment variables override the file values.
// Missing values get their defaults.
//
// Args:
//   - filename: The name of the configuration file. May be empty.
//
// Returns:
//   - *Config: A pointer to the Config struct.
//   - error: An error if the file or the environment cannot be parsed.
func LoadConfig(filename string) (*Config, error) {
	var config Config

	if filename != "" && utils.FileExists(filename) {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err = json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
		}
	}

	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	config.Normalize()

	return &config, nil
}

// SaveConfig saves the configuration to the specified file as indented JSON.
func SaveConfig(filename string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config data: %w", err)
	}

	if err = os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

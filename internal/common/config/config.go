// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Viewing       ViewingConfig      `mapstructure:"viewing"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// NotificationConfig holds settings for the webhook dispatcher.
type NotificationConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds

	// Static human fallback surfaced on transport failure.
	Fallback struct {
		Phone string `mapstructure:"phone"`
		Email string `mapstructure:"email"`
	} `mapstructure:"fallback"`
}

// ViewingConfig holds the host-supplied candidate slots for viewing forms.
type ViewingConfig struct {
	Slots []string `mapstructure:"slots"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

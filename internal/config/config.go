package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// AuthConfig contains credential storage and token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"` // Max 31 days
	// CredentialHashing selects how credentials are stored: "plain" keeps the
	// exact-match behaviour, "bcrypt" hashes them.
	CredentialHashing string `mapstructure:"credential_hashing" validate:"required,oneof=plain bcrypt"`
	BcryptCost        int    `mapstructure:"bcrypt_cost"        validate:"gte=4,lte=31"`
}

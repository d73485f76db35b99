package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Transaction TransactionConfig `mapstructure:"transaction"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Rewards     RewardsConfig     `mapstructure:"rewards"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres|memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	SlowThreshold   time.Duration `mapstructure:"slowThresholdMs"` // milliseconds
	LogLevel        string        `mapstructure:"logLevel"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// TransactionConfig controls retries of conflicting store transactions
type TransactionConfig struct {
	MaxRetries         int     `mapstructure:"maxRetries"`
	RetryIntervalMs    int64   `mapstructure:"retryIntervalMs"`
	MaxRetryIntervalMs int64   `mapstructure:"maxRetryIntervalMs"`
	JitterFactor       float64 `mapstructure:"jitterFactor"`
}

// AuthConfig holds the bearer token verification settings
type AuthConfig struct {
	JWTSecret string         `mapstructure:"jwtSecret"`
	Issuer    string         `mapstructure:"issuer"`
	Admins    []AdminAccount `mapstructure:"admins"`
}

// AdminAccount is an identity-provider user seeded with the admin role
type AdminAccount struct {
	ID    string `mapstructure:"id"`
	Email string `mapstructure:"email"`
}

// RedisConfig configures the Idempotency-Key response store
type RedisConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	IdempotencyTTL time.Duration `mapstructure:"idempotencyTTL"` // seconds
}

// RewardsConfig holds the coin amounts of the fixed bonuses
type RewardsConfig struct {
	WelcomeBonus   int64 `mapstructure:"welcomeBonus"`
	ReferrerReward int64 `mapstructure:"referrerReward"`
	ReferredReward int64 `mapstructure:"referredReward"`
}

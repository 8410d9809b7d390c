package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	RoleAdmin        = "Admin"
	RoleCheckInStaff = "CheckInStaff"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Activity ActivityConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig maps bearer tokens to roles. An empty map disables authorization.
type AuthConfig struct {
	Tokens map[string]string
}

type ActivityConfig struct {
	StreamKey    string
	Group        string
	MaxRetry     int
	ClaimMinIdle time.Duration
	BufferSize   int
}

type UploadConfig struct {
	LockTTL  time.Duration
	MaxBytes int64
}

// fileConfig is the optional YAML overlay read from CHECKIN_CONFIG_FILE.
type fileConfig struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Auth struct {
		Tokens map[string]string `yaml:"tokens"`
	} `yaml:"auth"`
	Activity struct {
		StreamKey string `yaml:"stream_key"`
		Group     string `yaml:"group"`
		MaxRetry  int    `yaml:"max_retry"`
	} `yaml:"activity"`
}

var AppConfig *Config

func LoadConfig() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	redisConfig, err := GetRedisConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    redisConfig,
		Auth:     AuthConfig{Tokens: parseTokens(getEnv("AUTH_TOKENS", ""))},
		Activity: GetActivityConfig(),
		Upload:   GetUploadConfig(),
	}

	if path := os.Getenv("CHECKIN_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Auth.validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // test DB listens on 5433
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Enabled:  true,
		Host:     "localhost",
		Port:     "6380", // test Redis listens on 6380
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Addr: ":0", ShutdownTimeout: time.Second},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth:     AuthConfig{Tokens: map[string]string{}},
		Activity: ActivityConfig{
			StreamKey:    "test:checkin:activity",
			Group:        "test-activity-workers",
			MaxRetry:     3,
			ClaimMinIdle: 200 * time.Millisecond,
			BufferSize:   16,
		},
		Upload: UploadConfig{LockTTL: 5 * time.Second, MaxBytes: 1 << 20},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            getEnv("SERVER_ADDR", ":8080"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	enabled, err := strconv.ParseBool(getEnv("REDIS_ENABLED", "true"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_ENABLED: %w", err)
	}

	return RedisConfig{
		Enabled:  enabled,
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}, nil
}

func GetActivityConfig() ActivityConfig {
	return ActivityConfig{
		StreamKey:    getEnv("ACTIVITY_STREAM_KEY", "checkin:activity"),
		Group:        getEnv("ACTIVITY_GROUP", "activity-workers"),
		MaxRetry:     getInt("ACTIVITY_MAX_RETRY", 5),
		ClaimMinIdle: getDuration("ACTIVITY_CLAIM_MIN_IDLE", 5*time.Second),
		BufferSize:   getInt("ACTIVITY_BUFFER_SIZE", 1024),
	}
}

func GetUploadConfig() UploadConfig {
	return UploadConfig{
		LockTTL:  getDuration("UPLOAD_LOCK_TTL", 30*time.Second),
		MaxBytes: int64(getInt("UPLOAD_MAX_BYTES", 10<<20)),
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Server.Addr != "" {
		c.Server.Addr = fc.Server.Addr
	}
	if len(fc.Server.CORSOrigins) > 0 {
		c.Server.CORSOrigins = fc.Server.CORSOrigins
	}
	for token, role := range fc.Auth.Tokens {
		if c.Auth.Tokens == nil {
			c.Auth.Tokens = map[string]string{}
		}
		c.Auth.Tokens[token] = role
	}
	if fc.Activity.StreamKey != "" {
		c.Activity.StreamKey = fc.Activity.StreamKey
	}
	if fc.Activity.Group != "" {
		c.Activity.Group = fc.Activity.Group
	}
	if fc.Activity.MaxRetry > 0 {
		c.Activity.MaxRetry = fc.Activity.MaxRetry
	}
	return nil
}

func (a AuthConfig) validate() error {
	for _, role := range a.Tokens {
		if role != RoleAdmin && role != RoleCheckInStaff {
			return fmt.Errorf("unknown role %q in auth tokens", role)
		}
	}
	return nil
}

// parseTokens reads "token:Role,token2:Role" pairs.
func parseTokens(value string) map[string]string {
	tokens := map[string]string{}
	for _, pair := range splitList(value) {
		token, role, ok := strings.Cut(pair, ":")
		if !ok || token == "" {
			continue
		}
		tokens[strings.TrimSpace(token)] = strings.TrimSpace(role)
	}
	return tokens
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	S3       S3Config       `yaml:"s3"`
	Jobs     JobsConfig     `yaml:"jobs"`
	CORS     CORSConfig     `yaml:"cors"`
	Admin    AdminConfig    `yaml:"admin"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxUploadSize caps product image payloads, in bytes.
	MaxUploadSize int64 `yaml:"max_upload_size"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory"; memory keeps documents in process and needs no database.
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns the postgres DSN. DATABASE_URL style URLs win over discrete fields.
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
	ResetTTL time.Duration `yaml:"reset_ttl"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
}

type JobsConfig struct {
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

// AdminConfig seeds the first administrator account on startup when Email is set
type AdminConfig struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadSize:   20 * 1024 * 1024,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "paleteria",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		JWT: JWTConfig{
			TokenTTL: 12 * time.Hour,
			ResetTTL: 30 * time.Minute,
		},
		Jobs: JobsConfig{
			CleanupSchedule: "@every 1h",
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
		},
	}
}

// Load reads defaults, then the yaml file at path (if present), then environment overrides.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.Name = dbName
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	if accessKey := os.Getenv("S3_ACCESS_KEY"); accessKey != "" {
		cfg.S3.AccessKey = accessKey
	}
	if secretKey := os.Getenv("S3_SECRET_KEY"); secretKey != "" {
		cfg.S3.SecretKey = secretKey
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.S3.Endpoint = endpoint
	}
	if schedule := os.Getenv("CLEANUP_SCHEDULE"); schedule != "" {
		cfg.Jobs.CleanupSchedule = schedule
	}
	if corsOrigins := os.Getenv("CORS_ORIGINS"); corsOrigins != "" {
		cfg.CORS.AllowedOrigins = corsOrigins
	}
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		cfg.Admin.Email = email
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.Admin.Password = password
	}
	if name := os.Getenv("ADMIN_NAME"); name != "" {
		cfg.Admin.DisplayName = name
	}
}

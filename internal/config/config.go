package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	AppName   string
	Version   string
	Server    ServerConfig
	Store     StoreConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Export    ExportConfig

	v *viper.Viper
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig controls the file-backed record store.
type StoreConfig struct {
	DataDir   string
	WriteLock bool
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
	File  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// ExportConfig points cmd/migrate and cmd/export at a SQL database.
type ExportConfig struct {
	Driver string
	DSN    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Quiz Quest Courses API")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)

	v.SetDefault("store.data_dir", "data")
	v.SetDefault("store.write_lock", false)

	v.SetDefault("jwt.secret_key", "your-secret-key-change-in-production")
	v.SetDefault("jwt.access_token_ttl", "30m")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.file", "")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})

	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("export.driver", "sqlite3")
	v.SetDefault("export.dsn", "quizquest_export.db")
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.port":      "SERVER_PORT",
		"store.data_dir":   "DATA_DIR",
		"store.write_lock": "STORE_WRITE_LOCK",
		"jwt.secret_key":   "JWT_SECRET",
		"redis.address":    "REDIS_ADDRESS",
		"redis.password":   "REDIS_PASSWORD",
		"logger.level":     "LOG_LEVEL",
		"logger.env":       "ENV",
		"logger.file":      "LOG_FILE",
		"export.dsn":       "EXPORT_DSN",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}
	return nil
}

// LoadConfig reads config.yaml from the given directories (or the default
// search paths) and applies environment overrides. A missing file is not an
// error; defaults apply.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		if os.Getenv("ENV") == "test" {
			paths = []string{"../../configs", "../../"}
		} else {
			paths = []string{".", "./configs"}
		}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		AppName: v.GetString("app.name"),
		Version: v.GetString("app.version"),
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Store: StoreConfig{
			DataDir:   v.GetString("store.data_dir"),
			WriteLock: v.GetBool("store.write_lock"),
		},
		JWT: JWTConfig{
			SecretKey:      v.GetString("jwt.secret_key"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
			File:  v.GetString("logger.file"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: v.GetInt("rate_limit.max_requests"),
			Window:      v.GetDuration("rate_limit.window"),
		},
		Export: ExportConfig{
			Driver: v.GetString("export.driver"),
			DSN:    v.GetString("export.dsn"),
		},
		v: v,
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt.secret_key must not be empty")
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		return nil, fmt.Errorf("rate_limit.max_requests must be positive, got %d", cfg.RateLimit.MaxRequests)
	}

	return cfg, nil
}

// WatchLogLevel calls onChange with the logger.level value every time the
// loaded config file is rewritten. It is a no-op when no file was loaded.
func (c *Config) WatchLogLevel(onChange func(level string)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := c.v.GetString("logger.level")
		c.Logger.Level = level
		onChange(level)
	})
	c.v.WatchConfig()
}

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *viper.Viper
	once   sync.Once
)

func init() {
	config = viper.New()
	setDefaults()
}

// Init reads the config file, config.yaml by default. Environment variables
// prefixed PARISH_ override file values (PARISH_DATABASE_TYPE for database.type).
func Init(configFiles ...string) error {
	var err error
	once.Do(func() {
		configFile := "config.yaml"
		if len(configFiles) > 0 {
			configFile = configFiles[0]
		}
		config.SetConfigFile(configFile)
		config.SetEnvPrefix("parish")
		config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		config.AutomaticEnv()

		if err = config.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config file failed: %w", err)
			return
		}

		config.WatchConfig()
	})
	return err
}

func setDefaults() {
	config.SetDefault("server.port", 8080)
	config.SetDefault("server.mode", "debug")
	config.SetDefault("server.app_name", "parish_tools")
	config.SetDefault("server.node_id", 1)

	config.SetDefault("jwt.secret", "your-jwt-secret-key")
	config.SetDefault("jwt.caller_claim", "sub")

	config.SetDefault("database.type", "sqlite")
	config.SetDefault("database.path", "data/parish.db")
	config.SetDefault("database.host", "localhost")
	config.SetDefault("database.port", 5432)
	config.SetDefault("database.user", "postgres")
	config.SetDefault("database.password", "postgres")
	config.SetDefault("database.dbname", "parish_tools")
	config.SetDefault("database.max_idle_conns", 10)
	config.SetDefault("database.max_open_conns", 100)
	config.SetDefault("database.conn_max_lifetime", 3600)

	config.SetDefault("cache.redis.addr", "localhost:6379")
	config.SetDefault("cache.redis.password", "")
	config.SetDefault("cache.redis.db", 0)

	config.SetDefault("log.filename", "logs/app.log")
	config.SetDefault("log.level", "info")
	config.SetDefault("log.max_size", 100)
	config.SetDefault("log.max_backups", 3)
	config.SetDefault("log.max_age", 28)
	config.SetDefault("log.compress", true)
	config.SetDefault("log.retention_days", 90)

	config.SetDefault("security.allowed_origins", "*")

	config.SetDefault("rate_limit.enabled", true)
	config.SetDefault("rate_limit.export.max_requests", 30)
	config.SetDefault("rate_limit.export.duration", 60)

	config.SetDefault("render.font_family", "Times New Roman")
	config.SetDefault("render.pdf_font", "Times")
	config.SetDefault("render.title_size", 14)
	config.SetDefault("render.body_size", 11)
	config.SetDefault("render.margin", 72)
	config.SetDefault("render.liturgical_red", "#c41e3a")
	config.SetDefault("render.locale", "en-US")

	config.SetDefault("metrics.enabled", true)
}

// Get returns a raw value
func Get(key string) interface{} {
	return config.Get(key)
}

// GetString returns a string value
func GetString(key string) string {
	return config.GetString(key)
}

// GetInt returns an int value
func GetInt(key string) int {
	return config.GetInt(key)
}

// GetInt64 returns an int64 value
func GetInt64(key string) int64 {
	return config.GetInt64(key)
}

// GetUint64 returns a uint64 value
func GetUint64(key string) uint64 {
	return config.GetUint64(key)
}

// GetFloat64 returns a float64 value
func GetFloat64(key string) float64 {
	return config.GetFloat64(key)
}

// GetBool returns a bool value
func GetBool(key string) bool {
	return config.GetBool(key)
}

// GetStringSlice returns a string slice
func GetStringSlice(key string) []string {
	return config.GetStringSlice(key)
}

// GetStringMapString returns a string map
func GetStringMapString(key string) map[string]string {
	return config.GetStringMapString(key)
}

// Set overrides a value, mainly for tests
func Set(key string, value interface{}) {
	config.Set(key, value)
}

// IsSet reports whether key has a value
func IsSet(key string) bool {
	return config.IsSet(key)
}

// AllSettings returns every setting
func AllSettings() map[string]interface{} {
	return config.AllSettings()
}

// GetDSN builds the connection string for database.type
func GetDSN() string {
	dbType := GetString("database.type")
	switch strings.ToLower(dbType) {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.dbname"),
		)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.dbname"),
		)
	case "sqlite":
		return GetString("database.path")
	default:
		return ""
	}
}

// GetJWTSecret returns the HMAC key used to verify caller tokens
func GetJWTSecret() []byte {
	return []byte(GetString("jwt.secret"))
}

// GetServerAddress returns the listen address
func GetServerAddress() string {
	return fmt.Sprintf(":%d", GetInt("server.port"))
}

// Validate checks the settings the service cannot start without.
func Validate() error {
	switch strings.ToLower(GetString("database.type")) {
	case "postgres", "mysql":
		if GetString("database.host") == "" || GetString("database.dbname") == "" {
			return ErrInvalidDatabaseConfig
		}
	case "sqlite":
		if GetString("database.path") == "" {
			return ErrInvalidDatabaseConfig
		}
	default:
		return fmt.Errorf("%w: database.type %q", ErrInvalidDatabaseConfig, GetString("database.type"))
	}
	if GetFloat64("render.body_size") <= 0 || GetFloat64("render.title_size") <= 0 || GetFloat64("render.margin") < 0 {
		return fmt.Errorf("%w: render sizes must be positive", ErrInvalidConfig)
	}
	return nil
}

package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/yockii/parish_tools/pkg/config"
)

var db *gorm.DB

// Init opens the database configured under database.* and stores it for GetDB.
func Init() error {
	dbType := strings.ToLower(config.GetString("database.type"))
	if dbType == "sqlite" {
		if dir := filepath.Dir(config.GetDSN()); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create database directory failed: %w", err)
			}
		}
	}

	level := logger.Warn
	if config.GetString("server.mode") == "debug" {
		level = logger.Info
	}

	var err error
	db, err = Open(dbType, config.GetDSN(), level)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB failed: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.GetInt("database.max_idle_conns"))
	sqlDB.SetMaxOpenConns(config.GetInt("database.max_open_conns"))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt("database.conn_max_lifetime")) * time.Second)
	return nil
}

// Open connects to one of the supported databases with the naming rules every
// table in this service follows. Tests use it with "sqlite" and ":memory:".
func Open(dbType, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "t_",
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var dialector gorm.Dialector
	switch dbType {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: unsupported database type %q", config.ErrInvalidDatabaseConfig, dbType)
	}

	conn, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database failed: %w", err)
	}
	return conn, nil
}

// GetDB returns the connection opened by Init.
func GetDB() *gorm.DB {
	return db
}

// Close closes the connection opened by Init.
func Close() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// OpenMemory opens a private in-memory sqlite database. The pool is limited
// to one connection since every sqlite memory connection is its own database.
func OpenMemory() (*gorm.DB, error) {
	conn, err := Open("sqlite", ":memory:", logger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}

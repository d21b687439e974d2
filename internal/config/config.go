package config

import (
	"github.com/spf13/viper"
)

// DefaultDatabasePath is where the catalog lives unless overridden.
const DefaultDatabasePath = "./bookshelf.db"

type (
	Config struct {
		Database
		Auth
		Log
	}

	Database struct {
		Path string
	}
	Auth struct {
		BcryptCost int
	}
	Log struct {
		Level string
	}
)

// NewConfig reads configuration from the environment with sensible defaults
// for a local, single-user install.
func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("log_level", "info")

	return &Config{
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			BcryptCost: v.GetInt("AUTH_BCRYPT_COST"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

package config

import (
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	AuthConfig
	DBConfig
	RedisConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Auth
	DB
	Redis
}

// New loads an optional .env file and returns the environment-backed
// configuration.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}

package config

import "strconv"

// DBConfig exposes the Postgres connection settings.
type DBConfig interface {
	GetPostgresDSN() string
	GetPostgresMaxConns() int32
}

type DB struct{}

var _ DBConfig = DB{}

func (DB) GetPostgresDSN() string {
	return GetEnv("POSTGRES_DSN", "")
}

func (DB) GetPostgresMaxConns() int32 {
	maxConns, err := strconv.Atoi(GetEnv("POSTGRES_MAX_CONNS", "10"))
	if err != nil {
		return 10
	}
	return int32(maxConns)
}

// RedisConfig exposes the optional Redis session-store settings. When no
// address is configured the Postgres store is used.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type Redis struct{}

var _ RedisConfig = Redis{}

func (Redis) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Redis) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Redis) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return db
}

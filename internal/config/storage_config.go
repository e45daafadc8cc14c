package config

import "path/filepath"

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type StorageConfig interface {
	GetStorageBackend() string
	GetDataFolder() string
	GetSessionFile() string
	GetEncryptionKey() string
	GetSQLitePath() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type Storage struct {
	Backend       string `env:"SESSION_STORAGE" envDefault:"file"`
	DataFolder    string `env:"FOLDER" envDefault:"./data"`
	SessionFile   string `env:"SESSION_FILE"`
	EncryptionKey string `env:"SESSION_ENCRYPTION_KEY"` // hex, 32 bytes; empty disables encryption
	SQLitePath    string `env:"SESSION_SQLITE_PATH"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"ai-creator:session"`
}

var _ StorageConfig = Storage{}

func (s Storage) GetStorageBackend() string {
	if s.Backend == "" {
		return StorageFile
	}
	return s.Backend
}

func (s Storage) GetDataFolder() string {
	return s.DataFolder
}

// GetSessionFile defaults to session.json inside the data folder.
func (s Storage) GetSessionFile() string {
	if s.SessionFile != "" {
		return s.SessionFile
	}
	return filepath.Join(s.DataFolder, "session.json")
}

func (s Storage) GetEncryptionKey() string {
	return s.EncryptionKey
}

func (s Storage) GetSQLitePath() string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return filepath.Join(s.DataFolder, "session.db")
}

func (s Storage) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Storage) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Storage) GetRedisDB() int {
	return s.RedisDB
}

func (s Storage) GetRedisPrefix() string {
	return s.RedisPrefix
}

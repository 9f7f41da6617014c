package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	RedisAddr string
	AssetsDir string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment, with an optional .env file.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:      getenv("LISTEN_ADDR", ":8080"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		AssetsDir: getenv("ASSETS_DIR", "./assets"),
	}
}

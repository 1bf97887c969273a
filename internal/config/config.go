package config

import "os"

// DefaultAPIURL is the local development endpoint of the item service.
const DefaultAPIURL = "http://localhost:8000/api"

// APIURLEnv overrides the item service base URL for every client.
const APIURLEnv = "STOCKROOM_API_URL"

type Config struct {
	APIURL     string
	ListenAddr string
	DBPath     string
	LogLevel   string
	LogFormat  string
	LogFile    string
}

func Load() *Config {
	return &Config{
		APIURL:     getEnv(APIURLEnv, DefaultAPIURL),
		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),
		DBPath:     getEnv("DB_PATH", "stockroom.db"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		LogFile:    getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}

package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every tunable the server reads at startup. Values
// come from the environment (with an optional .env file) and can be
// overridden by flags in main.
type Config struct {
	Addr      string
	ClientDir string
	DBPath    string
	Teams     int
	TeamSize  int
	MaxRooms  int
}

// MaxRoomSize is the room admission capacity: teams x team-size
func (c Config) MaxRoomSize() int {
	return c.Teams * c.TeamSize
}

// LoadConfig reads the environment, loading a .env file first when
// one is present
func LoadConfig() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}
	return Config{
		Addr:      envStr("ASTROBLAST_ADDR", ":8080"),
		ClientDir: envStr("ASTROBLAST_CLIENT_DIR", ""),
		DBPath:    envStr("ASTROBLAST_DB", "astroblast.db"),
		Teams:     envInt("ASTROBLAST_TEAMS", 2),
		TeamSize:  envInt("ASTROBLAST_TEAM_SIZE", 6),
		MaxRooms:  envInt("ASTROBLAST_MAX_ROOMS", 50),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("config: ignoring %s=%q: %v", key, v, err)
		return def
	}
	return n
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvName          = "BATTLESHIP_NAME"
	EnvHost          = "BATTLESHIP_HOST"
	EnvPort          = "BATTLESHIP_PORT"
	EnvListen        = "BATTLESHIP_LISTEN"
	EnvMoveTimeout   = "BATTLESHIP_MOVE_TIMEOUT"
	EnvMatchDuration = "BATTLESHIP_MATCH_DURATION"
)

// envFile is read if present. Variables already set in the environment win.
var envFile = ".env"

func applyEnv(c *Config) error {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return &InvalidConfig{fmt.Sprintf("%s: %v", envFile, err)}
		}
	}

	if v, ok := os.LookupEnv(EnvName); ok {
		c.Player.Name = v
	}
	if v, ok := os.LookupEnv(EnvHost); ok {
		c.Player.Host = v
	}
	if v, ok := os.LookupEnv(EnvListen); ok {
		c.Player.Listen = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &InvalidConfig{fmt.Sprintf("%s=%q is not a port", EnvPort, v)}
		}
		c.Player.Port = port
	}
	for _, d := range []struct {
		key string
		dst *int
	}{
		{EnvMoveTimeout, &c.Player.MoveTimeout},
		{EnvMatchDuration, &c.Player.MatchDuration},
	} {
		v, ok := os.LookupEnv(d.key)
		if !ok {
			continue
		}
		secs, err := parseSeconds(v)
		if err != nil {
			return &InvalidConfig{fmt.Sprintf("%s=%q: %v", d.key, v, err)}
		}
		*d.dst = secs
	}
	return nil
}

// parseSeconds accepts a plain number of seconds or a duration like "90s".
func parseSeconds(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	return int(d / time.Second), nil
}

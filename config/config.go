package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

var (
	cfgFile = "battleship-tui/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	WaterColor        int `json:"water"`
	WaterColorAlt     int `json:"water_alt"`
	ShipColor         int `json:"ship"`
	HitColor          int `json:"hit"`
	MissColor         int `json:"miss"`
	LabelColor        int `json:"label"`
	CursorColorFG     int `json:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
}

type ConfigSymbols struct {
	Water   rune `json:"water"`
	Ship    rune `json:"ship"`
	Hit     rune `json:"hit"`
	Miss    rune `json:"miss"`
	Unknown rune `json:"unknown"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	FullWidthLetters         bool          `json:"fullwidth_letters"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// PlayerConfig holds the defaults for the setup form and the server.
// Durations are stored in seconds.
type PlayerConfig struct {
	Name          string `json:"name"`
	Host          string `json:"host"`
	Port          int    `json:"port"`
	Listen        string `json:"listen"`
	MoveTimeout   int    `json:"move_timeout"`
	MatchDuration int    `json:"match_duration"`
}

func (p PlayerConfig) MoveTimeoutDuration() time.Duration {
	return time.Duration(p.MoveTimeout) * time.Second
}

func (p PlayerConfig) MatchDurationDuration() time.Duration {
	return time.Duration(p.MatchDuration) * time.Second
}

type Config struct {
	Theme  Theme        `json:"theme"`
	Player PlayerConfig `json:"player"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err = readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = applyEnv(&config); err != nil {
		return nil, err
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	s := c.Theme.Symbols
	for _, r := range []rune{s.Water, s.Ship, s.Hit, s.Miss, s.Unknown} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if err := ValidateName(c.Player.Name); err != nil {
		return err
	}
	if c.Player.Port < 1 || c.Player.Port > 65535 {
		return &InvalidConfig{fmt.Sprintf("port %d is out of range", c.Player.Port)}
	}
	if c.Player.MoveTimeout <= 0 {
		return &InvalidConfig{"move timeout must be positive"}
	}
	if c.Player.MatchDuration <= 0 {
		return &InvalidConfig{"match duration must be positive"}
	}
	return nil
}

// ValidateName rejects names the line protocol cannot carry.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidConfig{"player name cannot be empty"}
	}
	if strings.ContainsAny(name, ";\r\n") {
		return &InvalidConfig{"player name cannot contain ';' or line breaks"}
	}
	return nil
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err = json.Unmarshal(configReader, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where the binaries look for a config file when LASEREYE_CONFIG is unset.
const DefaultPath = "config/lasereye.toml"

type Config struct {
	Game     GameConfig     `toml:"game"`
	Terminal TerminalConfig `toml:"terminal"`
	SSH      SSHConfig      `toml:"ssh"`
	Web      WebConfig      `toml:"web"`
	Audio    AudioConfig    `toml:"audio"`
	Logging  LoggingConfig  `toml:"logging"`
}

type GameConfig struct {
	Seed                int64         `toml:"seed"` // 0 = seed from the clock
	CloudCount          int           `toml:"cloud_count"`
	TargetsFile         string        `toml:"targets_file"` // empty = embedded table
	OriginX             float64       `toml:"origin_x"`     // eye position as a fraction of the viewport
	OriginY             float64       `toml:"origin_y"`
	PowerHint           bool          `toml:"power_hint"`
	PowerEvalInterval   time.Duration `toml:"power_eval_interval"`
	MaintenanceInterval time.Duration `toml:"maintenance_interval"`
}

type TerminalConfig struct {
	FPS        int `toml:"fps"`
	CellWidth  int `toml:"cell_width"`  // pixels per terminal column
	CellHeight int `toml:"cell_height"` // pixels per terminal row
	MaxWidth   int `toml:"max_width"`   // columns; larger terminals are letterboxed
	MaxHeight  int `toml:"max_height"`
}

type SSHConfig struct {
	Host          string        `toml:"host"`
	Port          string        `toml:"port"`
	HostKeyPath   string        `toml:"host_key_path"`
	IdleTimeout   time.Duration `toml:"idle_timeout"`
	ShutdownGrace time.Duration `toml:"shutdown_grace"`
}

type WebConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	DisplayHost string `toml:"display_host"` // host shown in the ssh command on the landing page
	SSHPort     string `toml:"ssh_port"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // 0.0-1.0
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // output path; empty = frontend default
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Game: GameConfig{
			CloudCount:          5,
			OriginX:             0.5,
			OriginY:             0.85,
			PowerHint:           true,
			PowerEvalInterval:   time.Second,
			MaintenanceInterval: 5 * time.Second,
		},
		Terminal: TerminalConfig{
			FPS:        60,
			CellWidth:  10,
			CellHeight: 20,
			MaxWidth:   200,
			MaxHeight:  60,
		},
		SSH: SSHConfig{
			Host:          "0.0.0.0",
			Port:          "2222",
			HostKeyPath:   ".ssh/id_ed25519",
			IdleTimeout:   10 * time.Minute,
			ShutdownGrace: 30 * time.Second,
		},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "localhost",
			SSHPort:     "2222",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects values the game cannot run with.
func (c *Config) Validate() error {
	var errs []error
	g := c.Game
	if g.CloudCount < 0 {
		errs = append(errs, fmt.Errorf("game.cloud_count must not be negative"))
	}
	if g.OriginX < 0 || g.OriginX > 1 || g.OriginY < 0 || g.OriginY > 1 {
		errs = append(errs, fmt.Errorf("game.origin_x/origin_y must be within [0,1]"))
	}
	if g.PowerEvalInterval <= 0 || g.MaintenanceInterval <= 0 {
		errs = append(errs, fmt.Errorf("game intervals must be positive"))
	}
	t := c.Terminal
	if t.FPS <= 0 || t.FPS > 240 {
		errs = append(errs, fmt.Errorf("terminal.fps must be within 1..240"))
	}
	if t.CellWidth <= 0 || t.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("terminal cell size must be positive"))
	}
	if t.MaxWidth <= 0 || t.MaxHeight <= 0 {
		errs = append(errs, fmt.Errorf("terminal max size must be positive"))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0,1]"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Path returns the config file path, honoring LASEREYE_CONFIG.
func Path() string {
	return GetEnv("LASEREYE_CONFIG", DefaultPath)
}

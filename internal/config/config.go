package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	SaveDir        string `envconfig:"SAVE_DIR" default:"./data/saveFiles"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	BridgeSecret   string `envconfig:"BRIDGE_SECRET"`
	FrameRate      int    `envconfig:"FRAME_RATE" default:"30"`
	CanvasWidth    int    `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight   int    `envconfig:"CANVAS_HEIGHT" default:"720"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("FRAME_RATE must be positive, got %d", cfg.FrameRate)
	}
	return &cfg, nil
}

// Level parses LOG_LEVEL.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// OriginPatterns turns ALLOWED_ORIGINS into websocket origin host patterns.
func (c *Config) OriginPatterns() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

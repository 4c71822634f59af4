// Package config resolves exprc settings from defaults, a properties file
// and the environment. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/magiconair/properties"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "exprc.properties"

// Property keys.
const (
	KeyRadix       = "radix"
	KeyColor       = "color"
	KeyHost        = "server.host"
	KeyPort        = "server.port"
	KeyGRPCPort    = "server.grpc_port"
	KeySessionsDir = "server.sessions_dir"
)

// ColorMode selects when output is coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts auto/always/never and the boolean spellings.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always", "true", "on", "yes":
		return ColorAlways, nil
	case "never", "false", "off", "no":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Enabled resolves the mode against the terminal: auto colours only when
// stdout is a terminal and NO_COLOR is unset.
func (m ColorMode) Enabled() bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return !color.NoColor
}

// Config holds resolved settings.
type Config struct {
	Radix       types.Radix
	Color       ColorMode
	Host        string
	Port        int
	GRPCPort    int
	SessionsDir string

	// Source names the properties file that was read, if any.
	Source string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Radix:    types.Decimal,
		Color:    ColorAuto,
		Host:     "0.0.0.0",
		Port:     8787,
		GRPCPort: 8788,
	}
}

// Load layers defaults, the properties file at path and the environment.
// An empty path reads DefaultFile if it exists; a named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = DefaultFile
	}
	p, err := properties.LoadFile(file, properties.UTF8)
	switch {
	case err == nil:
		if err := cfg.ApplyProperties(p); err != nil {
			return cfg, fmt.Errorf("%s: %w", file, err)
		}
		cfg.Source = file
	case path == "" && errors.Is(err, fs.ErrNotExist):
		// No default file.
	default:
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyProperties overrides settings with the keys present in p.
func (c *Config) ApplyProperties(p *properties.Properties) error {
	return c.apply(func(key string) (string, bool) { return p.Get(key) }, func(key string) string { return key })
}

// envNames maps property keys to environment variables.
var envNames = map[string]string{
	KeyRadix:       "EXPRC_RADIX",
	KeyColor:       "EXPRC_COLOR",
	KeyHost:        "HOST",
	KeyPort:        "PORT",
	KeyGRPCPort:    "GRPC_PORT",
	KeySessionsDir: "SESSIONS_DIR",
}

// ApplyEnv overrides settings with non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	lookup := func(key string) (string, bool) {
		v := getenv(envNames[key])
		return v, v != ""
	}
	return c.apply(lookup, func(key string) string { return envNames[key] })
}

func (c *Config) apply(lookup func(string) (string, bool), name func(string) string) error {
	if v, ok := lookup(KeyRadix); ok {
		r, err := types.ParseRadix(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name(KeyRadix), err)
		}
		c.Radix = r
	}
	if v, ok := lookup(KeyColor); ok {
		m, err := ParseColorMode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name(KeyColor), err)
		}
		c.Color = m
	}
	if v, ok := lookup(KeyHost); ok {
		c.Host = v
	}
	if v, ok := lookup(KeyPort); ok {
		port, err := parsePort(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name(KeyPort), err)
		}
		c.Port = port
	}
	if v, ok := lookup(KeyGRPCPort); ok {
		port, err := parsePort(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name(KeyGRPCPort), err)
		}
		c.GRPCPort = port
	}
	if v, ok := lookup(KeySessionsDir); ok {
		c.SessionsDir = v
	}
	return nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}

// Addr returns host:port for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr returns host:port for the gRPC server.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

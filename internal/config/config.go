// Package config reads erasure.toml, the per-project settings of the lowering
// pass. Command-line flags override whatever the file sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"erasure/internal/signature"
	"erasure/internal/trace"
)

// FileName is the manifest looked up from the working directory upwards.
const FileName = "erasure.toml"

// Config is the decoded manifest.
type Config struct {
	Pass   PassConfig   `toml:"pass"`
	Trace  TraceConfig  `toml:"trace"`
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`
}

// PassConfig controls the lowering pass itself.
type PassConfig struct {
	// Jobs caps concurrent class workers; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// SignatureMode is "params" or "descriptor".
	SignatureMode string `toml:"signature_mode"`
	Bridges       bool   `toml:"bridges"`
	Mangle        bool   `toml:"mangle"`
}

// TraceConfig mirrors trace.Config in text form.
type TraceConfig struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	RingSize int    `toml:"ring_size"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// OutputConfig names the artifact written after lowering.
type OutputConfig struct {
	Artifact string `toml:"artifact"`
}

// Default returns the settings used when no manifest exists. Keys missing
// from a manifest keep these values.
func Default() Config {
	return Config{
		Pass:  PassConfig{SignatureMode: signature.ModeParams.String(), Bridges: true, Mangle: true},
		Trace: TraceConfig{Level: trace.LevelOff.String(), Mode: trace.ModeLog.String(), RingSize: 4096},
		Log:   LogConfig{Level: "info"},
	}
}

// Find searches for FileName starting at startDir and walking up to the
// filesystem root.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest manifest above startDir, or the defaults when
// there is none. The returned path is empty in the latter case.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Pass.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[pass].jobs must not be negative, got %d", c.Pass.Jobs))
	}
	if _, err := signature.ParseMode(c.Pass.SignatureMode); err != nil {
		errs = append(errs, fmt.Errorf("[pass].signature_mode: %w", err))
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("[trace].level: %w", err))
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		errs = append(errs, fmt.Errorf("[trace].mode: %w", err))
	}
	if c.Trace.RingSize < 0 {
		errs = append(errs, fmt.Errorf("[trace].ring_size must not be negative, got %d", c.Trace.RingSize))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("[log].level: %w", err))
	}
	return errors.Join(errs...)
}

// SignatureMode returns the parsed [pass].signature_mode.
func (c Config) SignatureMode() signature.Mode {
	m, err := signature.ParseMode(c.Pass.SignatureMode)
	if err != nil {
		return signature.ModeParams
	}
	return m
}

// Tracing builds the tracer configuration. The logger is attached by
// the caller.
func (c Config) Tracing() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, RingSize: c.Trace.RingSize}, nil
}

// LogLevel returns the parsed [log].level.
func (c Config) LogLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

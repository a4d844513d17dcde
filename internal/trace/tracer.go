package trace

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Tracer is a sink for trace events. Class workers share one tracer, so
// Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled is false only for LevelOff.
	Enabled() bool
}

// StorageMode determines where events go.
type StorageMode uint8

const (
	ModeLog  StorageMode = iota + 1 // forward to the zap logger
	ModeRing                        // circular buffer
	ModeBoth                        // log + ring
)

var modeNames = [...]string{ModeLog: "log", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if m >= ModeLog && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts the names printed by StorageMode.String; "" means log.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(s)
	if s == "" {
		return ModeLog, nil
	}
	for m := ModeLog; int(m) < len(modeNames); m++ {
		if modeNames[m] == s {
			return m, nil
		}
	}
	return ModeLog, fmt.Errorf("invalid storage mode: %q (expected: log|ring|both)", s)
}

// Config holds tracer configuration.
type Config struct {
	Level    Level
	Mode     StorageMode
	Logger   *zap.Logger // for ModeLog/ModeBoth; nil means a no-op logger
	RingSize int         // for ModeRing/ModeBoth (default 4096)
}

// New builds the sink cfg asks for. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	switch cfg.Mode {
	case ModeLog:
		return NewLogTracer(cfg.Logger, cfg.Level), nil
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeBoth:
		return NewMultiTracer(cfg.Level,
			NewLogTracer(cfg.Logger, cfg.Level),
			NewRingTracer(cfg.RingSize, cfg.Level),
		), nil
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
}

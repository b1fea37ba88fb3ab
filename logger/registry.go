package logger

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// components maps a component name to its logger. Names without an entry
// resolve to the global logger tagged with the name.
var components = struct {
	sync.RWMutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Register makes l the logger Get returns for name.
func Register(name string, l *Logger) {
	components.Lock()
	defer components.Unlock()
	components.byName[name] = l
}

// Get returns the logger of the named component.
func Get(name string) *Logger {
	components.RLock()
	l, ok := components.byName[name]
	components.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// WithLevel returns a copy of l that logs at level and above.
func (l *Logger) WithLevel(level string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return &Logger{logger: l.logger.Level(lvl), service: l.service}, nil
}

// registerLevels replaces the registered component loggers with one per
// entry of levels, derived from base.
func registerLevels(base *Logger, levels map[string]string) error {
	byName := make(map[string]*Logger, len(levels))
	for name, level := range levels {
		l, err := base.WithComponent(name).WithLevel(level)
		if err != nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		byName[name] = l
	}

	components.Lock()
	defer components.Unlock()
	components.byName = byName
	return nil
}

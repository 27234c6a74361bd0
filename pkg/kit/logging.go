package kit

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a JSON production logger tagged with the service name.
// level is a zap level name; empty means info.
func NewLogger(service, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}

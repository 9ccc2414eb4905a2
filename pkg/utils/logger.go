package utils

import (
	"io"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/rs/zerolog"

	"github.com/oxygene76/orrery/internal/types"
)

// NewLogger builds the application logger
func NewLogger(cfg LogConfig, w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidConfig, "log level %q", cfg.Level)
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...).With("module", "orrery"), nil
}

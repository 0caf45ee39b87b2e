package ferrysim

import (
	"github.com/rs/zerolog"
)

// logger receives the engine's diagnostics.  It discards everything until
// a caller installs its own with SetLogger
var logger zerolog.Logger = zerolog.Nop()

// SetLogger replaces the package logger.  It must not be called while runs are in progress
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "ferrysim").Logger()
}

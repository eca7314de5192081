package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

var (
	warnOnce   sync.Once
	warnLogger zerolog.Logger
)

// InitWarningLogger routes library warnings (ConvergenceWarning and friends)
// through a zerolog logger writing to w. Warning types implementing
// zerolog.LogObjectMarshaler are emitted as structured objects; anything else
// falls back to the plain error message. Passing nil writes to stderr.
//
// The wiring is one-shot: repeated calls after the first are no-ops.
func InitWarningLogger(w io.Writer) {
	warnOnce.Do(func() {
		if w == nil {
			w = os.Stderr
		}
		warnLogger = zerolog.New(w).With().Timestamp().Logger()
		errors.SetZerologWarnFunc(emitWarning)
	})
}

func emitWarning(warning error) {
	if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
		warnLogger.Warn().Object("warning", m).Msg(warning.Error())
		return
	}
	warnLogger.Warn().Err(warning).Msg("ml warning")
}

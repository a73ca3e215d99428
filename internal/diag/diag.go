// Package diag is the package-level swappable logger every AirTrace
// component logs operational trace lines through, grounded on the
// teacher's internal/monitoring.Logf/SetLogger and internal/lidar/l2frames
// Debugf/SetDebugLogger conventions.
package diag

import (
	"io"
	"log"
)

// Logf is the default operational logger. Replace with SetLogger to
// redirect or mute it in tests.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

var debugLogger *log.Logger

// SetDebugLogger installs a logger that receives verbose diagnostics. Pass
// nil to disable debug logging.
func SetDebugLogger(w io.Writer) {
	if w == nil {
		debugLogger = nil
		return
	}
	debugLogger = log.New(w, "", log.LstdFlags|log.Lmicroseconds)
}

// Debugf logs formatted debug messages when a debug logger is configured.
func Debugf(format string, args ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(format, args...)
	}
}

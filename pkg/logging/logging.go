// Package logging holds the process-wide logger shared by the renderer and
// its tools.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func getLogger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "softrast",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// Logger returns the shared logger for callers that want structured
// key/value output.
func Logger() *log.Logger {
	return getLogger()
}

// SetLevel changes the minimum level that is written.
func SetLevel(level log.Level) {
	getLogger().SetLevel(level)
}

// SetDebug switches between debug and info level.
func SetDebug(debug bool) {
	if debug {
		SetLevel(log.DebugLevel)
		return
	}
	SetLevel(log.InfoLevel)
}

// SetOutput redirects log output. The terminal viewer uses it to keep log
// lines off the alternate screen.
func SetOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

func LogDebug(msg string, args ...any) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...any) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...any) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...any) {
	getLogger().Errorf(msg, args...)
}

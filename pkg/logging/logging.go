// Package logging configures the process-wide logger for daemon use.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var logFile *os.File

// Init points the default charmbracelet logger at stderr plus a log
// file, so long-running services keep a record across restarts. An
// empty path leaves the logger on stderr only.
func Init(logFilePath string, level log.Level) error {
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	if logFilePath == "" {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	log.Debug("Logging initialized", "file", logFilePath)
	return nil
}

// Close closes the log file, if one was opened.
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

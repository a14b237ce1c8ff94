// Package utils provides utility functions for the application.
package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingLogWriter returns a size-rotated file writer for background
// workers and access logs. maxSize is in megabytes, maxAge in days.
func RotatingLogWriter(path string, maxSize, maxBackups, maxAge int, compress bool) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   compress,
	}
}

// NewComponentLogger builds a logger that writes to stdout and, when
// filePath is non-empty, to a rotating log file as well. Timestamps are
// UTC with microsecond precision so entries from different workers can
// be interleaved reliably.
func NewComponentLogger(prefix, filePath string, maxSize, maxBackups, maxAge int, compress bool) *log.Logger {
	w := io.Writer(os.Stdout)
	if filePath != "" {
		w = io.MultiWriter(os.Stdout, RotatingLogWriter(filePath, maxSize, maxBackups, maxAge, compress))
	}
	return log.New(w, prefix+" ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
}

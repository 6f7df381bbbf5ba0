package output

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ExpandLogFilePath expands a leading "~/" to the user's home directory
func ExpandLogFilePath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}

// createLumberjackLogger creates a lumberjack logger with configuration from environment variables
func createLumberjackLogger(logFilePath string) *lumberjack.Logger {
	config := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
		Compress:   false,
	}

	if maxSize, ok := envInt("GBP_LOG_MAX_SIZE"); ok && maxSize > 0 {
		config.MaxSize = maxSize
	}
	if maxBackups, ok := envInt("GBP_LOG_MAX_BACKUPS"); ok && maxBackups >= 0 {
		config.MaxBackups = maxBackups
	}
	if maxAge, ok := envInt("GBP_LOG_MAX_AGE"); ok && maxAge > 0 {
		config.MaxAge = maxAge
	}

	return config
}

func envInt(name string) (int, bool) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Package common provides logging utilities for the application
package common

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

// levelNames maps a log level to the tag printed in front of each line.
var levelNames = map[logger.LogLevel]string{
	logger.DEBUG:   "DEBUG",
	logger.INFO:    "INFO",
	logger.WARNING: "WARN",
	logger.ERROR:   "ERROR",
}

// skvLogger implements logger.ILogger on top of the standard log package.
type skvLogger struct {
	name  string
	level logger.LogLevel
	out   *log.Logger
}

// CreateLogger implements the logger.Factory interface.
func CreateLogger(pkgName string) logger.ILogger {
	return &skvLogger{
		name:  pkgName,
		level: logger.INFO,
		out:   log.New(os.Stdout, "", log.Ldate|log.Ltime),
	}
}

func (l *skvLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

// write emits one line when the logger's level admits it.
func (l *skvLogger) write(level logger.LogLevel, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	l.out.Printf("%-5s | %-15s | %s", levelNames[level], l.name, fmt.Sprintf(format, args...))
}

func (l *skvLogger) Debugf(format string, args ...interface{}) {
	l.write(logger.DEBUG, format, args...)
}

func (l *skvLogger) Infof(format string, args ...interface{}) {
	l.write(logger.INFO, format, args...)
}

func (l *skvLogger) Warningf(format string, args ...interface{}) {
	l.write(logger.WARNING, format, args...)
}

func (l *skvLogger) Errorf(format string, args ...interface{}) {
	l.write(logger.ERROR, format, args...)
}

func (l *skvLogger) Panicf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

// parseLogLevel converts the configured level name to a logger.LogLevel.
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG
	case "info":
		return logger.INFO
	case "warning", "warn":
		return logger.WARNING
	case "error":
		return logger.ERROR
	}
	panic(fmt.Sprintf("invalid log level: %s. must be one of debug, info, warn, error", level))
}

// InitLoggers installs the custom logger factory and applies the configured
// level to every package logger.
func InitLoggers(config ServerConfig) {
	logger.SetLoggerFactory(CreateLogger)

	level := parseLogLevel(config.LogLevel)
	for _, name := range []string{"backend", "rpc", "transport/rpc", "serve"} {
		logger.GetLogger(name).SetLevel(level)
	}
}

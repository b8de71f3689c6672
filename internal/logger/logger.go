// Package logger provides structured logging using zap.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance.
var Log *zap.Logger

// Sugar is the sugared logger for convenient logging.
var Sugar *zap.SugaredLogger

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Init initializes the global logger with the given level and optional file
// output.
func Init(level string, logFile string) error {
	if logFile != "" {
		return InitWithFileConfig(level, DefaultFileConfig(logFile), true)
	}
	return InitWithFileConfig(level, FileConfig{}, true)
}

// InitWithFileConfig initializes the global logger with custom file
// configuration. Set consoleOutput to false to disable console logging
// (useful for tests).
func InitWithFileConfig(level string, fileCfg FileConfig, consoleOutput bool) error {
	Log = New(level, fileCfg, consoleOutput)
	Sugar = Log.Sugar()
	return nil
}

// New builds a logger without touching the package globals. Subsystems that
// hold their own logger (the query engine does) take one of these.
func New(level string, fileCfg FileConfig, consoleOutput bool) *zap.Logger {
	lvl := parseLevel(level)

	var cores []zapcore.Core

	if consoleOutput {
		consoleCore := zapcore.NewCore(
			newEncoder(zapcore.TimeEncoderOfLayout("15:04:05"), zapcore.CapitalColorLevelEncoder),
			zapcore.AddSync(os.Stdout),
			lvl,
		)
		cores = append(cores, consoleCore)
	}

	if fileCfg.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   fileCfg.Path,
			MaxSize:    fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
			LocalTime:  true, // Use local time in rotated filename
		}

		fileCore := zapcore.NewCore(
			newEncoder(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder),
			zapcore.AddSync(fileWriter),
			lvl,
		)
		cores = append(cores, fileCore)
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

func newEncoder(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	})
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

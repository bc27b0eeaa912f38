package logger

import (
	"fmt"
	"os"
	"path"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yockii/parish_tools/pkg/config"
)

// logger discards everything until Init runs.
var logger = zap.NewNop()

// F is shorthand for a log field
func F(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// Init writes JSON logs to the rotated log.filename. In debug server mode
// the same entries also go to stdout.
func Init() {
	logFile := config.GetString("log.filename")
	if logFile == "" {
		logFile = "logs/app.log"
	}

	logDir := path.Dir(logFile)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Printf("create log directory failed, file logging disabled: %v\n", err)
		return
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    config.GetInt("log.max_size"), // MB
		MaxBackups: config.GetInt("log.max_backups"),
		MaxAge:     config.GetInt("log.max_age"), // days
		Compress:   config.GetBool("log.compress"),
	})

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.InfoLevel
	if l, err := zapcore.ParseLevel(config.GetString("log.level")); err == nil {
		level = l
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), w, level)
	if config.GetString("server.mode") == "debug" {
		console := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), level)
		core = zapcore.NewTee(core, console)
	}

	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// SetLogger replaces the package logger, e.g. with zaptest or an observer in tests.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

// Warn logs at warn level
func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

// Error logs at error level
func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal logs and exits
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

// Sync flushes buffered entries
func Sync() error {
	return logger.Sync()
}

// GetLogger returns the underlying zap logger
func GetLogger() *zap.Logger {
	return logger
}

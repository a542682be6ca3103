package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control where and how much NewLogWith writes.
type Options struct {
	Dir   string        // rotated files go here; "" disables file output
	Level zapcore.Level // minimum level for both sinks
	// OmitMessage drops the msg key; access logs carry everything in fields.
	OmitMessage bool
}

// OptionsFromEnv reads LOG_DIR (default "log") and LOG_LEVEL (default info).
func OptionsFromEnv() Options {
	o := Options{Dir: "log", Level: zapcore.InfoLevel}
	if v, ok := os.LookupEnv("LOG_DIR"); ok {
		o.Dir = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if lvl, err := zapcore.ParseLevel(v); err == nil {
			o.Level = lvl
		}
	}
	return o
}

// NewLog builds a JSON logger named n that tees to stdout and a rotated
// file under the configured log dir.
func NewLog(n string) *zap.Logger { return NewLogWith(n, OptionsFromEnv()) }

func NewLogWith(n string, o Options) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if o.OmitMessage {
		cfg.MessageKey = zapcore.OmitKey
	}
	enc := zapcore.NewJSONEncoder(cfg)

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), o.Level),
	}
	if o.Dir != "" {
		_ = os.MkdirAll(o.Dir, 0o755)
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(o.Dir, n),
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
		cores = append(cores, zapcore.NewCore(enc.Clone(), w, o.Level))
	}
	return zap.New(zapcore.NewTee(cores...))
}

var (
	accessOnce       sync.Once
	accessMu         sync.RWMutex
	httpAccessLogger *zap.Logger
)

func accessLogger() *zap.Logger {
	accessOnce.Do(func() {
		accessMu.Lock()
		if httpAccessLogger == nil {
			o := OptionsFromEnv()
			o.OmitMessage = true
			httpAccessLogger = NewLogWith("http-access.log", o)
		}
		accessMu.Unlock()
	})
	accessMu.RLock()
	defer accessMu.RUnlock()
	return httpAccessLogger
}

// SetAccessLogger lets tests and CLIs override the access logger.
func SetAccessLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	accessMu.Lock()
	httpAccessLogger = l
	accessMu.Unlock()
}

// Package logger configures the process-wide logrus logger: output and
// format, masking of sensitive fields and optional shipping of entries into
// a search index.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data/search"
	"github.com/sirupsen/logrus"
)

// VersionKey is the log field carrying the build version.
const VersionKey = "version"

// Logger wraps logrus with context-aware helpers.
type Logger struct {
	*logrus.Logger
	mu      sync.Mutex
	version string
	logFile *os.File
	logPath string
	done    chan struct{}
}

var (
	standardLogger *Logger
	once           sync.Once
)

// StdLogger returns the singleton logger instance
func StdLogger() *Logger {
	once.Do(func() {
		standardLogger = &Logger{Logger: logrus.New()}
		standardLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return standardLogger
}

// New configures the standard logger and returns it with its cleanup function.
func New(c *config.Logger) (*Logger, func(), error) {
	l := StdLogger()
	cleanup, err := l.Init(c)
	if err != nil {
		return nil, nil, err
	}
	return l, cleanup, nil
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.version = v
}

// Init applies c to l, replacing the hooks, output and rotation of any
// earlier Init. The returned function closes the log file, if any.
func (l *Logger) Init(c *config.Logger) (func(), error) {
	l.cleanup()
	l.ReplaceHooks(make(logrus.LevelHooks))
	if c == nil {
		return func() {}, nil
	}

	l.SetLevel(logrus.Level(c.Level))

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch c.Output {
	case "stdout":
		l.SetOutput(os.Stdout)
	case "file":
		if c.OutputFile == "" {
			return nil, fmt.Errorf("logger output is file but output_file is empty")
		}
		l.logPath = c.OutputFile
		if err := l.setupLogFile(); err != nil {
			return nil, err
		}
		l.done = make(chan struct{})
		go l.periodicLogRotation(l.done)
	default:
		l.SetOutput(os.Stderr)
	}

	if c.Desensitization != nil && c.Desensitization.Enabled {
		l.AddHook(NewDesensitizeHook(NewDesensitizer(c.Desensitization)))
	}

	return l.cleanup, nil
}

// Ship adds a hook indexing every entry at or above level into index
// through t.
func (l *Logger) Ship(t search.Transport, index string, level logrus.Level) {
	l.AddHook(NewSearchHook(t, index, level))
}

func (l *Logger) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done != nil {
		close(l.done)
		l.done = nil
	}
	if l.logFile != nil {
		_ = l.logFile.Close()
		l.logFile = nil
		l.SetOutput(io.Discard)
	}
}

func (l *Logger) setupLogFile() error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		return err
	}
	return l.rotateLog(time.Now())
}

// rotateLog switches output to the file of day now.
func (l *Logger) rotateLog(now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := fmt.Sprintf("%s.%s.log", strings.TrimSuffix(l.logPath, ".log"), now.Format("2006-01-02"))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}

	l.SetOutput(f)
	if l.logFile != nil {
		_ = l.logFile.Close()
	}
	l.logFile = f
	return nil
}

// periodicLogRotation rotates the file at every local midnight.
func (l *Logger) periodicLogRotation(done <-chan struct{}) {
	timer := time.NewTimer(time.Until(nextMidnight(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-timer.C:
			if err := l.rotateLog(now); err != nil {
				l.Logger.Errorf("Error rotating log: %v", err)
			}
			timer.Reset(time.Until(nextMidnight(now)))
		}
	}
}

// nextMidnight returns the start of the day after now, in now's location.
func nextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// WithContext returns an entry carrying the trace ID and version.
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields[TraceIDKey] = traceID
	}
	if l.version != "" {
		fields[VersionKey] = l.version
	}
	return l.WithFields(fields).WithContext(ctx)
}

func (l *Logger) log(ctx context.Context, level logrus.Level, args ...any) {
	l.WithContext(ctx).Log(level, args...)
}

func (l *Logger) logf(ctx context.Context, level logrus.Level, format string, args ...any) {
	l.WithContext(ctx).Logf(level, format, args...)
}

func (l *Logger) Debug(ctx context.Context, args ...any) { l.log(ctx, logrus.DebugLevel, args...) }
func (l *Logger) Info(ctx context.Context, args ...any)  { l.log(ctx, logrus.InfoLevel, args...) }
func (l *Logger) Warn(ctx context.Context, args ...any)  { l.log(ctx, logrus.WarnLevel, args...) }
func (l *Logger) Error(ctx context.Context, args ...any) { l.log(ctx, logrus.ErrorLevel, args...) }

func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.DebugLevel, format, args...)
}
func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.InfoLevel, format, args...)
}
func (l *Logger) Warnf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.WarnLevel, format, args...)
}
func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.ErrorLevel, format, args...)
}

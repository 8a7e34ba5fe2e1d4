package observes

import (
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/herosearch/config"
	"github.com/sirupsen/logrus"
)

// ErrNoSentryConfig is returned when error reporting is requested without configuration.
var ErrNoSentryConfig = errors.New("sentry config is nil")

// flushTimeout bounds how long pending events are sent on shutdown.
const flushTimeout = 2 * time.Second

// SentryOptions describes the reporting service.
type SentryOptions struct {
	Sentry  *config.Sentry
	Name    string
	Release string
}

// NewSentry initializes the global Sentry client. With no DSN configured
// nothing is initialized. The returned func flushes pending events.
func NewSentry(opt *SentryOptions) (func(), error) {
	if opt == nil || opt.Sentry == nil {
		return nil, ErrNoSentryConfig
	}
	cfg := opt.Sentry
	if cfg.DSN == "" {
		return func() {}, nil
	}

	release := cfg.Release
	if release == "" {
		release = opt.Release
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		AttachStacktrace: true,
		SampleRate:       cfg.SampleRate,
		ServerName:       opt.Name,
		Release:          release,
		Environment:      cfg.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init sentry: %w", err)
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// SentryHook reports log entries at or above a level as Sentry events.
// String fields become tags, the error field becomes the exception.
type SentryHook struct {
	hub    *sentry.Hub
	levels []logrus.Level
}

// NewSentryHook reports through hub, or the current hub when hub is nil.
func NewSentryHook(hub *sentry.Hub, level logrus.Level) *SentryHook {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	levels := make([]logrus.Level, 0, level+1)
	for _, l := range logrus.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}
	return &SentryHook{hub: hub, levels: levels}
}

func (h *SentryHook) Levels() []logrus.Level { return h.levels }

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Level = sentryLevel(entry.Level)
	event.Message = entry.Message
	event.Timestamp = entry.Time

	for k, v := range entry.Data {
		switch x := v.(type) {
		case error:
			if k == logrus.ErrorKey {
				event.Exception = append(event.Exception, sentry.Exception{
					Type:  fmt.Sprintf("%T", x),
					Value: x.Error(),
				})
				continue
			}
			event.Extra[k] = x.Error()
		case string:
			event.Tags[k] = x
		default:
			event.Extra[k] = x
		}
	}

	h.hub.CaptureEvent(event)
	return nil
}

func sentryLevel(l logrus.Level) sentry.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	case logrus.ErrorLevel:
		return sentry.LevelError
	case logrus.WarnLevel:
		return sentry.LevelWarning
	case logrus.InfoLevel:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}

package faults

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Collector receives unexpected errors for fault tracking. User-initiated
// rejections and expected conditions (no route found) are never sent here.
type Collector interface {
	CaptureException(err error)
}

// SentryCollector reports faults to Sentry.
type SentryCollector struct{}

// InitSentry initializes the Sentry SDK and returns a collector backed by
// it. An empty DSN disables reporting and returns a no-op collector.
func InitSentry(dsn string) (Collector, error) {
	if dsn == "" {
		return NopCollector{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{Dsn: dsn})
	if err != nil {
		return nil, err
	}
	return SentryCollector{}, nil
}

func (SentryCollector) CaptureException(err error) {
	sentry.CaptureException(err)
}

// Flush waits for buffered events to be sent. Call before process exit.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// NopCollector discards all faults.
type NopCollector struct{}

func (NopCollector) CaptureException(err error) {}

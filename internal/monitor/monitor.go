// Package monitor provides optional Sentry error tracking.
package monitor

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

// Service wraps the Sentry client. With no DSN configured every method is
// a no-op, so callers never need to nil-check.
type Service struct {
	initialized bool
}

// New initializes Sentry from the given DSN. An empty DSN disables it.
func New(dsn, environment string) *Service {
	if dsn == "" {
		log.Println("SENTRY_DSN not set, error tracking disabled")
		return &Service{}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		log.Printf("sentry init failed: %v", err)
		return &Service{}
	}
	return &Service{initialized: true}
}

// CaptureException records an error.
func (s *Service) CaptureException(err error) {
	if !s.initialized {
		return
	}
	sentry.CaptureException(err)
}

// Flush waits for buffered events to be sent, bounded by timeout. Called
// on shutdown.
func (s *Service) Flush(timeout time.Duration) {
	if !s.initialized {
		return
	}
	sentry.Flush(timeout)
}

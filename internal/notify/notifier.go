// Package notify is the user-facing notification boundary. The core
// converts every operation failure into a notice here instead of letting
// errors escape to the presentation layer.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Notifier receives user-visible notices. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notices to the logger. It stands in for a toast
// presenter, which is outside the core.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a logger-backed notifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

// Success logs an informational notice.
func (n *LogNotifier) Success(message string) {
	n.log.Info().Str("notice", message).Msg("user notice")
}

// Error logs a failure notice.
func (n *LogNotifier) Error(message string) {
	n.log.Warn().Str("notice", message).Msg("user notice")
}

// Recorder captures notices for assertions in tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []string
	Errors   []string
}

// Success records an informational notice.
func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, message)
}

// Error records a failure notice.
func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, message)
}

// LastError returns the most recent failure notice.
func (r *Recorder) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[len(r.Errors)-1]
}

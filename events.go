package authkit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// SecurityEvent is one observable engine outcome: a login, a revocation, a
// consumed OTP, a deleted account. Events are advisory; no flow blocks on
// sink delivery.
type SecurityEvent struct {
	Timestamp  time.Time         `json:"timestamp"`
	Flow       string            `json:"flow"`
	UserID     string            `json:"user_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Identifier string            `json:"identifier,omitempty"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Flow names used in emitted events.
const (
	FlowLogin            = "login"
	FlowRegistration     = "registration"
	FlowLogout           = "logout"
	FlowLogoutAll        = "logout_all"
	FlowChangePassword   = "change_password"
	FlowPasswordRecovery = "password_recovery"
	FlowDeleteAccount    = "delete_account"
)

// EventSink receives security events from the engine's dispatcher. Emit runs
// on the dispatcher goroutine; slow sinks delay later events but never the
// flows themselves.
type EventSink interface {
	Emit(ctx context.Context, event SecurityEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, SecurityEvent) {}

// ChannelSink forwards events to a buffered channel, for hosts that want to
// consume them in their own goroutine.
type ChannelSink struct {
	events chan SecurityEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan SecurityEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event SecurityEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan SecurityEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to the wrapped writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event SecurityEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

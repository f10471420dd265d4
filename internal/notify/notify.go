// Package notify delivers user-facing toast messages.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Level is the kind of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one message shown to the user
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Sink accepts notifications. Calls never fail and never block on delivery.
type Sink interface {
	Success(msg string)
	Error(msg string)
}

// Recorder keeps notifications in memory, one per request
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: msg})
}

// Notifications returns a copy of what was recorded, in order
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification{}, r.items...)
}

// LogSink writes notifications to a logger
type LogSink struct {
	logger *zap.Logger
	fields []zap.Field
}

// NewLogSink creates a sink logging with the given fields attached
func NewLogSink(logger *zap.Logger, fields ...zap.Field) *LogSink {
	return &LogSink{logger: logger, fields: fields}
}

func (s *LogSink) Success(msg string) {
	s.logger.Info("Notification sent", append(s.fields, zap.String("level", string(LevelSuccess)), zap.String("message", msg))...)
}

func (s *LogSink) Error(msg string) {
	s.logger.Warn("Notification sent", append(s.fields, zap.String("level", string(LevelError)), zap.String("message", msg))...)
}

// Multi fans out to every sink
type Multi []Sink

func (m Multi) Success(msg string) {
	for _, s := range m {
		if s != nil {
			s.Success(msg)
		}
	}
}

func (m Multi) Error(msg string) {
	for _, s := range m {
		if s != nil {
			s.Error(msg)
		}
	}
}

// UserSink sends to every connected session of one user through a Hub
type UserSink struct {
	hub    *Hub
	userID string
}

// ForUser returns a sink targeting userID's sessions
func (h *Hub) ForUser(userID string) *UserSink {
	return &UserSink{hub: h, userID: userID}
}

func (s *UserSink) Success(msg string) {
	s.hub.Send(s.userID, Notification{Level: LevelSuccess, Message: msg})
}

func (s *UserSink) Error(msg string) {
	s.hub.Send(s.userID, Notification{Level: LevelError, Message: msg})
}

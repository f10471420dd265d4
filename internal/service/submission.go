package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/workflow"
)

// SubmitMeta identifies who submits and from which form instance
type SubmitMeta struct {
	UserID      string
	Email       string
	DisplayName string
	// InstanceID is the client's form instance (X-Form-Instance); empty disables the guard
	InstanceID string
}

// SubmissionResult is the outcome of one submission plus the messages it produced
type SubmissionResult struct {
	Outcome       workflow.Outcome
	Notifications []notify.Notification
	// Data is the written record, set on success
	Data interface{}
}

// SinkFactory returns the realtime sink of a user
type SinkFactory func(userID string) notify.Sink

// ChangeListener is called after a record was written
type ChangeListener func(ctx context.Context, collection, key string)

// submitter runs submissions with the in-flight guard and notification fan-out
type submitter struct {
	orchestrator *workflow.Orchestrator
	guard        InFlightGuard
	sinks        SinkFactory
	listeners    []ChangeListener
	logger       *zap.Logger
}

func (s *submitter) run(ctx context.Context, meta SubmitMeta, sub workflow.Submission) (*SubmissionResult, error) {
	if meta.InstanceID != "" && s.guard != nil {
		key := sub.Name + ":" + meta.InstanceID
		token, acquired, err := s.guard.Acquire(ctx, key)
		if err != nil {
			s.logger.Warn("In-flight guard unavailable, continuing without it", zap.String("key", key), zap.Error(err))
		} else if !acquired {
			return nil, workflow.ErrSubmissionInFlight
		} else {
			defer s.guard.Release(context.WithoutCancel(ctx), key, token)
		}
	}

	recorder := notify.NewRecorder()
	sinks := notify.Multi{recorder, notify.NewLogSink(s.logger, zap.String("form", sub.Name), zap.String("user_id", meta.UserID))}
	if s.sinks != nil && meta.UserID != "" {
		sinks = append(sinks, s.sinks(meta.UserID))
	}
	sub.Notify = sinks

	out, err := s.orchestrator.Run(ctx, sub)
	if err != nil {
		return nil, err
	}
	return &SubmissionResult{Outcome: out, Notifications: recorder.Notifications()}, nil
}

func (s *submitter) changed(ctx context.Context, collection, key string) {
	for _, l := range s.listeners {
		l(context.WithoutCancel(ctx), collection, key)
	}
}

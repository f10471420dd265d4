// Package workflow runs one form submission: validate, optionally upload
// an asset, write the record, then notify and update the form.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/storage"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/validation"
)

// MsgUploadFailed is shown when the asset could not be stored
const MsgUploadFailed = "Error al subir la imágen, intenta más tarde."

// ErrSubmissionInFlight is returned when the form already has a submission outstanding
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrSuperseded is the orphan cause of an asset replaced by a newer upload
var ErrSuperseded = errors.New("asset superseded by a newer upload")

// State is a step of a submission
type State int

const (
	Idle State = iota
	Validating
	Rejected
	Uploading
	Writing
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Rejected:
		return "rejected"
	case Uploading:
		return "uploading"
	case Writing:
		return "writing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Form is the state container a submission drives
type Form interface {
	TryBegin() bool
	End()
	SetErrors(errs map[string]bool)
	SetSubmitting(v bool)
	Reset()
}

// OrphanRecorder keeps track of uploaded assets no record points to
type OrphanRecorder interface {
	RecordOrphan(ctx context.Context, objectKey string, cause error)
}

// Observer receives one call per finished submission
type Observer interface {
	IncrementSubmission(form, outcome string)
}

// Submission describes one submit of one form instance
type Submission struct {
	// Name labels logs and metrics, e.g. "product"
	Name string
	Form Form
	// Notify receives the success or failure message
	Notify notify.Sink

	Validate func() validation.Result
	// Precheck returns a form-level error message, or "" when the form may proceed
	Precheck func() string
	// Upload is nil when there is no asset; it returns the stored object key
	Upload func(ctx context.Context) (string, error)
	Write  func(ctx context.Context) error
	// Supersedes is the object key the uploaded asset replaces. It is
	// recorded as an orphan once the write succeeds.
	Supersedes string

	ResetOnSuccess bool
	CloseOnSuccess bool
	SuccessMessage string
	// FailureMessage maps a failure to its message; DefaultFailureMessage when nil
	FailureMessage func(err error) string

	UpdateData   func()
	SetShowModal func(show bool)
}

// Outcome is the result of Run
type Outcome struct {
	State    State
	Errors   map[string]bool
	Err      error
	Message  string
	AssetKey string
	Closed   bool
}

// Orchestrator sequences submissions
type Orchestrator struct {
	orphans  OrphanRecorder
	observer Observer
	logger   *zap.Logger
}

// New creates an orchestrator. orphans and observer may be nil.
func New(orphans OrphanRecorder, observer Observer, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{orphans: orphans, observer: observer, logger: logger}
}

// Run executes sub. The only error returned is ErrSubmissionInFlight;
// every other failure is reported in the Outcome and through sub.Notify.
func (o *Orchestrator) Run(ctx context.Context, sub Submission) (Outcome, error) {
	if !sub.Form.TryBegin() {
		o.observe(sub.Name, "in_flight")
		return Outcome{State: Idle}, ErrSubmissionInFlight
	}
	defer sub.Form.End()

	log := o.logger.With(zap.String("form", sub.Name))
	log.Debug("Submission started", zap.Stringer("state", Validating))

	result := sub.Validate()
	precheck := ""
	if sub.Precheck != nil {
		precheck = sub.Precheck()
	}
	sub.Form.SetErrors(result.Errors)
	if !result.OK || precheck != "" {
		if precheck != "" {
			sub.Notify.Error(precheck)
		}
		log.Debug("Submission rejected", zap.Int("fieldErrors", len(result.Errors)), zap.String("precheck", precheck))
		o.observe(sub.Name, Rejected.String())
		return Outcome{State: Rejected, Errors: result.Errors, Message: precheck}, nil
	}

	sub.Form.SetSubmitting(true)
	defer sub.Form.SetSubmitting(false)

	out := o.execute(ctx, sub, log)
	o.observe(sub.Name, out.State.String())
	return out, nil
}

func (o *Orchestrator) execute(ctx context.Context, sub Submission, log *zap.Logger) Outcome {
	if err := ctx.Err(); err != nil {
		log.Info("Submission abandoned before I/O", zap.Error(err))
		return Outcome{State: Failed, Err: err}
	}

	var assetKey string
	if sub.Upload != nil {
		log.Debug("Uploading asset", zap.Stringer("state", Uploading))
		key, err := sub.Upload(ctx)
		if err != nil {
			return o.fail(ctx, sub, log, err, "")
		}
		assetKey = key

		if err := ctx.Err(); err != nil {
			log.Info("Submission abandoned after upload", zap.String("assetKey", assetKey), zap.Error(err))
			o.recordOrphan(ctx, assetKey, err)
			return Outcome{State: Failed, Err: err, AssetKey: assetKey}
		}
	}

	log.Debug("Writing record", zap.Stringer("state", Writing))
	// a write that has started runs to completion
	if err := sub.Write(context.WithoutCancel(ctx)); err != nil {
		if assetKey != "" {
			o.recordOrphan(ctx, assetKey, err)
		}
		return o.fail(ctx, sub, log, err, assetKey)
	}
	if assetKey != "" && sub.Supersedes != "" && sub.Supersedes != assetKey {
		o.recordOrphan(ctx, sub.Supersedes, ErrSuperseded)
	}

	sub.Notify.Success(sub.SuccessMessage)
	if sub.ResetOnSuccess {
		sub.Form.Reset()
	}

	out := Outcome{State: Succeeded, Message: sub.SuccessMessage, AssetKey: assetKey}
	if ctx.Err() != nil {
		log.Info("Caller gone, skipping success callbacks")
		return out
	}
	if sub.UpdateData != nil {
		sub.UpdateData()
	}
	if sub.CloseOnSuccess && sub.SetShowModal != nil {
		sub.SetShowModal(false)
		out.Closed = true
	}
	log.Info("Submission succeeded", zap.String("assetKey", assetKey))
	return out
}

func (o *Orchestrator) fail(ctx context.Context, sub Submission, log *zap.Logger, err error, assetKey string) Outcome {
	mapper := sub.FailureMessage
	if mapper == nil {
		mapper = DefaultFailureMessage
	}
	msg := mapper(err)
	sub.Notify.Error(msg)
	log.Warn("Submission failed", zap.String("message", msg), zap.Error(err))
	return Outcome{State: Failed, Err: err, Message: msg, AssetKey: assetKey}
}

func (o *Orchestrator) recordOrphan(ctx context.Context, key string, cause error) {
	if o.orphans == nil {
		return
	}
	o.orphans.RecordOrphan(context.WithoutCancel(ctx), key, cause)
}

func (o *Orchestrator) observe(form, outcome string) {
	if o.observer != nil {
		o.observer.IncrementSubmission(form, outcome)
	}
}

// DefaultFailureMessage is the generic upload message for upload errors
// and "Error: {code}" for everything else
func DefaultFailureMessage(err error) string {
	var uploadErr *storage.UploadError
	if errors.As(err, &uploadErr) {
		return MsgUploadFailed
	}
	var writeErr *repository.WriteError
	if errors.As(err, &writeErr) {
		return "Error: " + writeErr.Code
	}
	return "Error: internal"
}

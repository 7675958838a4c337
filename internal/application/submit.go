package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
)

// Sink receives finished application records.
type Sink interface {
	Submit(ctx context.Context, rec Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec Record) error

func (f SinkFunc) Submit(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// Submission statuses reported to metrics.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// SubmitResult is the observable outcome of a submission. A failed submission
// never changes interview state and is not retried.
type SubmitResult struct {
	Record Record
	Status string
	Err    error
}

// Submitter delivers records to a sink without blocking the interview.
type Submitter struct {
	sink    Sink
	logger  *zap.Logger
	metrics metrics.Recorder
	timeout time.Duration

	wg sync.WaitGroup
}

// NewSubmitter wraps sink. A nil sink marks every submission as skipped.
func NewSubmitter(sink Sink, timeout time.Duration, log *zap.Logger, rec metrics.Recorder) *Submitter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Submitter{
		sink:    sink,
		logger:  logger.WithFields(log),
		metrics: metrics.OrNop(rec),
		timeout: timeout,
	}
}

// Submit delivers rec synchronously and reports the outcome.
func (s *Submitter) Submit(ctx context.Context, rec Record) SubmitResult {
	res := SubmitResult{Record: rec, Status: StatusOK}

	switch {
	case s.sink == nil:
		res.Status = StatusSkipped
		s.logger.Debug("no application sink configured", zap.String("application", rec.ID))
	default:
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := s.sink.Submit(ctx, rec); err != nil {
			res.Status = StatusFailed
			res.Err = err
			s.logger.Warn("application submission failed",
				zap.String("application", rec.ID),
				zap.Error(err),
			)
		} else {
			s.logger.Info("application submitted", zap.String("application", rec.ID))
		}
	}

	s.metrics.SinkSubmission(res.Status)
	return res
}

// Go delivers rec in the background. The returned channel yields exactly one result.
func (s *Submitter) Go(ctx context.Context, rec Record) <-chan SubmitResult {
	out := make(chan SubmitResult, 1)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		out <- s.Submit(context.WithoutCancel(ctx), rec)
		close(out)
	}()

	return out
}

// Wait blocks until background submissions finish.
func (s *Submitter) Wait() {
	s.wg.Wait()
}

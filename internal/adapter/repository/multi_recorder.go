package repository

import (
	"context"
	"log/slog"

	"easy-apply/internal/domain"
	"easy-apply/internal/usecase"
)

// MultiRecorder writes to a primary recorder and mirrors to the others.
// Mirror failures are logged and never fail the call.
type MultiRecorder struct {
	primary usecase.Recorder
	mirrors []usecase.Recorder
}

func NewMultiRecorder(primary usecase.Recorder, mirrors ...usecase.Recorder) *MultiRecorder {
	return &MultiRecorder{primary: primary, mirrors: mirrors}
}

func (m *MultiRecorder) RecordAnswered(ctx context.Context, job *domain.Job, q domain.Question) error {
	return m.each(func(r usecase.Recorder) error { return r.RecordAnswered(ctx, job, q) })
}

func (m *MultiRecorder) RecordUnprepared(ctx context.Context, job *domain.Job, q domain.Question) error {
	return m.each(func(r usecase.Recorder) error { return r.RecordUnprepared(ctx, job, q) })
}

func (m *MultiRecorder) RecordAttempt(ctx context.Context, a *domain.Attempt) error {
	return m.each(func(r usecase.Recorder) error { return r.RecordAttempt(ctx, a) })
}

// RecordScreenshot is delegated to the primary recorder when it keeps
// screenshots.
func (m *MultiRecorder) RecordScreenshot(ctx context.Context, a *domain.Attempt, png []byte) error {
	if sr, ok := m.primary.(usecase.ScreenshotRecorder); ok {
		return sr.RecordScreenshot(ctx, a, png)
	}
	return nil
}

func (m *MultiRecorder) each(fn func(usecase.Recorder) error) error {
	err := fn(m.primary)
	for _, r := range m.mirrors {
		if merr := fn(r); merr != nil {
			slog.Warn("mirror recorder failed", "error", merr)
		}
	}
	return err
}

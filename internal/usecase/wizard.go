package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"easy-apply/internal/domain"
)

// WizardState is the position of the Easy Apply wizard state machine.
type WizardState string

const (
	StateNotStarted      WizardState = "NOT_STARTED"
	StateStepInProgress  WizardState = "STEP_IN_PROGRESS"
	StateSubmitted       WizardState = "SUBMITTED"
	StateTestModeStopped WizardState = "TEST_MODE_STOPPED"
	StateFailed          WizardState = "FAILED"
	StateClosed          WizardState = "CLOSED"
)

// progressComplete is the completion meter value of the last step.
const progressComplete = 100

// Wizard drives one job's multi-step application.
type Wizard struct {
	rc     *RunContext
	page   Page
	filler *Filler
	state  WizardState
	// trace collects every state entered, for diagnostics and tests.
	trace []WizardState
}

func NewWizard(rc *RunContext, page Page) *Wizard {
	return &Wizard{rc: rc, page: page, filler: NewFiller(rc)}
}

// State returns the state the last Apply ended in.
func (w *Wizard) State() WizardState { return w.state }

// Trace returns the states entered by the last Apply, in order.
func (w *Wizard) Trace() []WizardState { return append([]WizardState(nil), w.trace...) }

func (w *Wizard) enter(s WizardState) {
	w.state = s
	w.trace = append(w.trace, s)
}

// Apply runs the wizard for job and records exactly one attempt. The returned
// error is non-nil only when the whole run must stop (setup problems or the
// end of ctx); ordinary failures are reported through the attempt.
func (w *Wizard) Apply(ctx context.Context, job *domain.Job) (*domain.Attempt, error) {
	w.trace = nil
	w.enter(StateNotStarted)

	started, err := w.fill(ctx, job)
	if err == nil {
		if w.rc.TestMode {
			w.enter(StateTestModeStopped)
		} else if err = w.submit(ctx); err == nil {
			w.enter(StateSubmitted)
		}
	}

	var attempt *domain.Attempt
	switch {
	case err != nil:
		w.enter(StateFailed)
		attempt = domain.NewAttempt(w.rc.RunID, job, domain.StatusFailed, reasonOf(err))
		slog.Error("application failed", "run_id", w.rc.RunID, "job_id", job.JobID, "reason", attempt.Reason)
	case w.state == StateTestModeStopped:
		attempt = domain.NewAttempt(w.rc.RunID, job, domain.StatusAppliedTestMode, "")
		slog.Info("test mode, application not submitted", "run_id", w.rc.RunID, "job_id", job.JobID)
	default:
		attempt = domain.NewAttempt(w.rc.RunID, job, domain.StatusApplied, "")
		slog.Info("application submitted", "run_id", w.rc.RunID, "job_id", job.JobID)
	}

	// the attempt is recorded even when ctx has ended
	if rerr := w.rc.Recorder.RecordAttempt(context.WithoutCancel(ctx), attempt); rerr != nil {
		slog.Error("record application status", "run_id", w.rc.RunID, "job_id", job.JobID, "error", rerr)
	}
	if w.state == StateFailed && started {
		w.captureFailure(ctx, attempt)
	}

	if (w.state == StateFailed && started) || w.state == StateTestModeStopped {
		if derr := w.dismiss(ctx); derr != nil {
			slog.Warn("dismiss application modal", "run_id", w.rc.RunID, "job_id", job.JobID, "error", derr)
		}
	}
	w.enter(StateClosed)

	if err != nil && isFatal(ctx, err) {
		return attempt, err
	}
	return attempt, nil
}

// fill opens the wizard and completes its steps. started reports whether the
// apply control was activated, i.e. whether a modal needs dismissing.
func (w *Wizard) fill(ctx context.Context, job *domain.Job) (started bool, err error) {
	t := w.rc.Timing

	btn, err := w.page.WaitFor(ctx, selApplyButton, t.Timeout)
	if err != nil {
		return false, err
	}
	if btn == nil {
		return false, &NavigationError{What: "apply control not found"}
	}
	if err := btn.Click(ctx); err != nil {
		return false, fmt.Errorf("activate apply control: %w", err)
	}
	started = true
	w.enter(StateStepInProgress)

	if err := w.dismissSafetyTips(ctx); err != nil {
		return started, err
	}

	progress, ok, err := w.progress(ctx)
	if err != nil {
		return started, err
	}
	if !ok {
		// Steps without a meter are treated as complete and are not filled.
		slog.Warn("no progress indicator, treating application as complete", "run_id", w.rc.RunID, "job_id", job.JobID)
		return started, nil
	}

	for step := 1; progress < progressComplete; step++ {
		next, err := firstOf(ctx,
			func(ctx context.Context) (Element, error) { return w.page.WaitFor(ctx, selContinue, t.Timeout) },
			func(ctx context.Context) (Element, error) { return w.page.WaitFor(ctx, selReview, t.ShortTimeout) },
		)
		if err != nil {
			return started, err
		}
		if next == nil {
			return started, &StuckStepError{Reason: "no continue or review control found"}
		}

		sections, err := w.page.FindAll(ctx, selSections)
		if err != nil {
			return started, err
		}
		for _, s := range sections {
			if err := w.filler.FillSection(ctx, job, s); err != nil {
				return started, err
			}
		}

		if err := next.Click(ctx); err != nil {
			return started, fmt.Errorf("advance step %d: %w", step, err)
		}
		if err := sleep(ctx, t.StepSettle); err != nil {
			return started, err
		}

		current, ok, err := w.progress(ctx)
		if err != nil {
			return started, err
		}
		if !ok {
			return started, &StuckStepError{Reason: "progress indicator not found after advancing"}
		}
		if current <= progress {
			return started, &StuckStepError{Reason: fmt.Sprintf("progress not updated from %d%%, could not fill details", progress)}
		}
		slog.Debug("step completed", "run_id", w.rc.RunID, "job_id", job.JobID, "step", step, "progress", current)
		progress = current
	}
	return started, nil
}

// dismissSafetyTips confirms the optional job-search safety interstitial.
func (w *Wizard) dismissSafetyTips(ctx context.Context) error {
	modal, err := w.page.WaitFor(ctx, selSafetyFooter, w.rc.Timing.ShortTimeout)
	if err != nil || modal == nil {
		return err
	}
	confirm, err := modal.Find(ctx, selSafetyConfirm)
	if err != nil || confirm == nil {
		return err
	}
	return confirm.Click(ctx)
}

// progress reads the completion meter of the wizard content.
func (w *Wizard) progress(ctx context.Context) (int, bool, error) {
	el, err := w.page.WaitFor(ctx, selProgress, w.rc.Timing.Timeout)
	if err != nil || el == nil {
		return 0, false, err
	}
	raw, err := el.Attribute(ctx, "value")
	if err != nil {
		return 0, false, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false, fmt.Errorf("progress value %q: %w", raw, err)
	}
	return int(v), true, nil
}

func (w *Wizard) submit(ctx context.Context) error {
	btn, err := w.page.WaitFor(ctx, selSubmit, w.rc.Timing.Timeout)
	if err != nil {
		return err
	}
	if btn == nil {
		return &NavigationError{What: "submit control not found"}
	}
	if err := btn.Click(ctx); err != nil {
		return fmt.Errorf("submit application: %w", err)
	}
	return nil
}

// dismiss closes the modal and confirms discarding the draft.
func (w *Wizard) dismiss(ctx context.Context) error {
	t := w.rc.Timing
	for i, sel := range []string{selDismiss, selDiscard} {
		if i > 0 {
			if err := sleep(ctx, t.StepSettle); err != nil {
				return err
			}
		}
		el, err := w.page.WaitFor(ctx, sel, t.Timeout)
		if err != nil {
			return err
		}
		if el == nil {
			return &NavigationError{What: "modal control " + sel + " not found"}
		}
		if err := el.Click(ctx); err != nil {
			return err
		}
	}
	return nil
}

// captureFailure keeps a screenshot of a failed wizard when both the page
// and the recorder support it.
func (w *Wizard) captureFailure(ctx context.Context, a *domain.Attempt) {
	shooter, ok := w.page.(Screenshotter)
	if !ok {
		return
	}
	rec, ok := w.rc.Recorder.(ScreenshotRecorder)
	if !ok {
		return
	}
	png, err := shooter.Screenshot(ctx)
	if err == nil {
		err = rec.RecordScreenshot(ctx, a, png)
	}
	if err != nil {
		slog.Warn("capture failed application", "run_id", w.rc.RunID, "job_id", a.Job.JobID, "error", err)
	}
}

// reasonOf turns an attempt failure into the reason column text.
func reasonOf(err error) string {
	var nav *NavigationError
	if errors.As(err, &nav) && nav.Err == nil {
		return nav.What
	}
	return err.Error()
}

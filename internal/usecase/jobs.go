package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"easy-apply/internal/domain"
)

// Summary counts the outcomes of one Apply pass.
type Summary struct {
	Entries  int                          `json:"entries"`
	Skipped  int                          `json:"skipped"`
	ByStatus map[domain.AttemptStatus]int `json:"by_status"`
}

func newSummary() *Summary {
	return &Summary{ByStatus: map[domain.AttemptStatus]int{}}
}

// JobsPage iterates the filtered result list and applies to each posting.
type JobsPage struct {
	rc     *RunContext
	page   Page
	wizard *Wizard
}

func NewJobsPage(rc *RunContext, page Page) *JobsPage {
	return &JobsPage{rc: rc, page: page, wizard: NewWizard(rc, page)}
}

// ApplyFilters opens the filtered listing and returns the result count text.
func (p *JobsPage) ApplyFilters(ctx context.Context, f Filters) (string, error) {
	u, err := f.SearchURL(p.rc.BaseURL)
	if err != nil {
		return "", err
	}
	if err := p.page.Navigate(ctx, u); err != nil {
		return "", &NavigationError{What: "open job search", Err: err}
	}
	el, err := p.page.WaitFor(ctx, selResultCount, p.rc.Timing.Timeout)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", &NavigationError{What: "job listing not found"}
	}
	count, err := el.Text(ctx)
	if err != nil {
		return "", err
	}
	slog.Info("jobs found", "run_id", p.rc.RunID, "count", count)
	return count, nil
}

// Apply processes every entry of the current result page in document order.
// Only the first page is visited.
func (p *JobsPage) Apply(ctx context.Context) (*Summary, error) {
	sum := newSummary()
	t := p.rc.Timing

	list, err := p.page.WaitFor(ctx, selResultList, t.Timeout)
	if err != nil {
		return sum, err
	}
	if list == nil {
		err := &NavigationError{What: "job results missing on this page"}
		slog.Warn("no job results", "run_id", p.rc.RunID, "error", err)
		return sum, err
	}
	items, err := list.FindAll(ctx, "li")
	if err != nil {
		return sum, err
	}
	sum.Entries = len(items)

	for i := 1; i <= len(items); i++ {
		slog.Info("applying to job", "run_id", p.rc.RunID, "entry", i, "of", len(items))
		if p.rc.Limiter != nil {
			if err := p.rc.Limiter.Wait(ctx); err != nil {
				return sum, err
			}
		}

		status, err := p.applyEntry(ctx, i)
		if err != nil {
			if isFatal(ctx, err) {
				return sum, err
			}
			sum.Skipped++
			slog.Warn("job entry skipped", "run_id", p.rc.RunID, "entry", i, "error", err)
			continue
		}
		sum.ByStatus[status]++

		if err := sleep(ctx, t.Settle); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (p *JobsPage) applyEntry(ctx context.Context, i int) (domain.AttemptStatus, error) {
	entry, err := p.page.WaitFor(ctx, fmt.Sprintf(selResultItemNth, i), p.rc.Timing.Timeout)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", &NavigationError{What: fmt.Sprintf("result entry %d not found", i)}
	}
	if err := entry.Click(ctx); err != nil {
		return "", &NavigationError{What: fmt.Sprintf("open result entry %d", i), Err: err}
	}
	if err := sleep(ctx, p.rc.Timing.Settle); err != nil {
		return "", err
	}

	job, err := p.currentJob(ctx)
	if err != nil {
		return "", err
	}
	slog.Info("job opened", "run_id", p.rc.RunID, "job_id", job.JobID, "title", job.Title,
		"company", job.Company, "location", job.Location, "applicants", job.Applicants, "posted", job.Posted)

	applied, err := p.page.Find(ctx, selAppliedIndicator)
	if err != nil {
		return "", err
	}
	if applied != nil {
		slog.Info("already applied to this job", "run_id", p.rc.RunID, "job_id", job.JobID)
		a := domain.NewAttempt(p.rc.RunID, job, domain.StatusAlreadyApplied, "")
		if err := p.rc.Recorder.RecordAttempt(ctx, a); err != nil {
			slog.Error("record application status", "run_id", p.rc.RunID, "job_id", job.JobID, "error", err)
		}
		return a.Status, nil
	}

	a, err := p.wizard.Apply(ctx, job)
	if err != nil {
		return "", err
	}
	return a.Status, nil
}

// currentJob builds the Job of the open detail pane.
func (p *JobsPage) currentJob(ctx context.Context) (*domain.Job, error) {
	u, err := p.page.URL(ctx)
	if err != nil {
		return nil, err
	}
	title, err := p.optionalText(ctx, selJobTitle)
	if err != nil {
		return nil, err
	}
	desc, err := p.optionalText(ctx, selJobDescription)
	if err != nil {
		return nil, err
	}
	job, err := domain.NewJob(u, title, desc)
	if err != nil {
		return nil, &NavigationError{What: "read job details", Err: err}
	}
	return job, nil
}

func (p *JobsPage) optionalText(ctx context.Context, selector string) (string, error) {
	el, err := p.page.Find(ctx, selector)
	if err != nil || el == nil {
		return "", err
	}
	return el.Text(ctx)
}

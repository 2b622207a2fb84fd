package repository

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"easy-apply/internal/domain"
)

const (
	UnpreparedFile = "unprepared_questions.json"
	AnsweredFile   = "answered_questions.csv"
	StatusFile     = "application_status.csv"
	ScreenshotDir  = "screenshots"
)

var (
	answeredHeader = []string{"JOB_ID", "QUESTION", "TYPE", "ANSWER"}
	statusHeader   = []string{"APPLICATION_DATE", "JOB_ID", "JOB_ROLE", "COMPANY", "LOCATION", "APPLICANTS", "STATUS", "REASON"}
)

// AttemptRow is one line of the application status log.
type AttemptRow struct {
	Date       string `json:"application_date"`
	JobID      string `json:"job_id"`
	JobRole    string `json:"job_role"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Applicants string `json:"applicants"`
	Status     string `json:"status"`
	Reason     string `json:"reason"`
}

// FileRecorder appends run artifacts to the logs directory.
type FileRecorder struct {
	dir        string
	unprepared []domain.UnpreparedQuestion
	now        func() time.Time
}

// NewFileRecorder prepares dir and loads the existing unprepared questions.
func NewFileRecorder(dir string) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	r := &FileRecorder{dir: dir, now: time.Now}

	existing, err := readUnprepared(r.path(UnpreparedFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.unprepared = []domain.UnpreparedQuestion{}
		if err := r.writeUnprepared(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		r.unprepared = existing
	}
	return r, nil
}

func (r *FileRecorder) path(name string) string { return filepath.Join(r.dir, name) }

func (r *FileRecorder) RecordAnswered(_ context.Context, job *domain.Job, q domain.Question) error {
	return appendCSV(r.path(AnsweredFile), answeredHeader, []string{job.JobID, q.Text, string(q.Kind), q.Value})
}

func (r *FileRecorder) RecordUnprepared(_ context.Context, job *domain.Job, q domain.Question) error {
	r.unprepared = append(r.unprepared, domain.UnpreparedQuestion{
		JobID:    job.JobID,
		Question: q.Text,
		Type:     q.Kind,
		Options:  q.Options,
	})
	return r.writeUnprepared()
}

func (r *FileRecorder) RecordAttempt(_ context.Context, a *domain.Attempt) error {
	j := a.Job
	return appendCSV(r.path(StatusFile), statusHeader, []string{
		r.now().Format("2006-01-02"), j.JobID, j.Title, j.Company, j.Location, j.Applicants, string(a.Status), a.Reason,
	})
}

// RecordScreenshot stores the capture of a failed attempt as
// screenshots/<job id>-<attempt id>.png.
func (r *FileRecorder) RecordScreenshot(_ context.Context, a *domain.Attempt, png []byte) error {
	dir := r.path(ScreenshotDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s-%s.png", a.Job.JobID, a.ID)
	return os.WriteFile(filepath.Join(dir, name), png, 0o644)
}

// Unprepared returns the questions recorded so far.
func (r *FileRecorder) Unprepared(context.Context) ([]domain.UnpreparedQuestion, error) {
	return readUnprepared(r.path(UnpreparedFile))
}

// Attempts returns the application status log without its header.
func (r *FileRecorder) Attempts(context.Context) ([]AttemptRow, error) {
	f, err := os.Open(r.path(StatusFile))
	if errors.Is(err, os.ErrNotExist) {
		return []AttemptRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(statusHeader)
	out := []AttemptRow{}
	for first := true; ; first = false {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", StatusFile, err)
		}
		if first {
			continue
		}
		out = append(out, AttemptRow{
			Date: rec[0], JobID: rec[1], JobRole: rec[2], Company: rec[3],
			Location: rec[4], Applicants: rec[5], Status: rec[6], Reason: rec[7],
		})
	}
}

// writeUnprepared rewrites the JSON list through a temp file so readers
// never see a partial document.
func (r *FileRecorder) writeUnprepared() error {
	b, err := json.MarshalIndent(r.unprepared, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path(UnpreparedFile + ".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path(UnpreparedFile))
}

func readUnprepared(path string) ([]domain.UnpreparedQuestion, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []domain.UnpreparedQuestion
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if out == nil {
		out = []domain.UnpreparedQuestion{}
	}
	return out, nil
}

// appendCSV appends row to path, writing header first when the file is new.
func appendCSV(path string, header, row []string) error {
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

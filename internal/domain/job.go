package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Job is one posting opened from the result list. Scraped fields are best
// effort and default to empty strings.
type Job struct {
	JobID      string `json:"job_id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Posted     string `json:"posted"`
	Applicants string `json:"applicants"`
}

// JobIDFromURL extracts the currentJobId query parameter of a detail-pane URL.
func JobIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse job url: %w", err)
	}
	id := u.Query().Get("currentJobId")
	if id == "" {
		return "", fmt.Errorf("job url %q has no currentJobId", raw)
	}
	return id, nil
}

// NewJob builds a Job from the detail-pane URL, the title text and the
// "·"-separated primary description line (company · location · posted · applicants).
func NewJob(rawURL, title, description string) (*Job, error) {
	id, err := JobIDFromURL(rawURL)
	if err != nil {
		return nil, err
	}
	j := &Job{JobID: id, URL: rawURL, Title: strings.TrimSpace(title)}

	parts := strings.Split(description, "·")
	if len(parts) >= 4 {
		j.Company = strings.TrimSpace(parts[0])
		j.Location = strings.TrimSpace(parts[1])
		j.Posted = strings.TrimSpace(parts[2])
		j.Applicants = strings.TrimSpace(parts[3])
	}
	return j, nil
}

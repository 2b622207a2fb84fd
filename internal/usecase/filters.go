package usecase

import (
	"fmt"
	"net/url"
)

const searchPath = "/jobs/search"

var (
	workLocations = map[string]string{"ON_SITE": "1", "REMOTE": "2", "HYBRID": "3"}
	jobTypes      = map[string]string{"PART_TIME": "P", "FULL_TIME": "F", "CONTRACT": "C", "TEMPORARY": "T", "OTHER": "O"}
	experience    = map[string]string{
		"INTERNSHIP": "1", "ENTRY_LEVEL": "2", "ASSOCIATE": "3",
		"MID_SENIOR": "4", "DIRECTOR": "5", "EXECUTIVE": "6",
	}
)

// Filters narrows the job search. Empty fields are not applied.
type Filters struct {
	Title           string `json:"keyword" yaml:"keyword"`
	Location        string `json:"location" yaml:"location"`
	WorkLocation    string `json:"workLocation" yaml:"work_location"`
	JobType         string `json:"jobType" yaml:"job_type"`
	ExperienceLevel string `json:"experienceLevel" yaml:"experience_level"`
}

// Query encodes the filters. Quick-apply postings are always requested.
func (f Filters) Query() (url.Values, error) {
	q := url.Values{}
	q.Set("f_AL", "true")
	if f.Title != "" {
		q.Set("keywords", f.Title)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	for _, e := range []struct {
		key, name, value string
		codes            map[string]string
	}{
		{"f_WT", "work location", f.WorkLocation, workLocations},
		{"f_JT", "job type", f.JobType, jobTypes},
		{"f_E", "experience level", f.ExperienceLevel, experience},
	} {
		if e.value == "" {
			continue
		}
		code, ok := e.codes[e.value]
		if !ok {
			return nil, &SetupError{Err: fmt.Errorf("unknown %s %q", e.name, e.value)}
		}
		q.Set(e.key, code)
	}
	return q, nil
}

// SearchURL returns the listing URL for the filters under base.
func (f Filters) SearchURL(base string) (string, error) {
	q, err := f.Query()
	if err != nil {
		return "", err
	}
	return base + searchPath + "?" + q.Encode(), nil
}

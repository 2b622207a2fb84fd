package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	j, err := NewJob("https://www.linkedin.com/jobs/search/?currentJobId=3712&keywords=go",
		"  Senior Go Engineer ", "Acme Corp · Berlin, Germany · 3 days ago · 57 applicants")
	require.NoError(t, err)

	assert.Equal(t, "3712", j.JobID)
	assert.Equal(t, "Senior Go Engineer", j.Title)
	assert.Equal(t, "Acme Corp", j.Company)
	assert.Equal(t, "Berlin, Germany", j.Location)
	assert.Equal(t, "3 days ago", j.Posted)
	assert.Equal(t, "57 applicants", j.Applicants)
}

func TestNewJob_ShortDescriptionLeavesFieldsEmpty(t *testing.T) {
	j, err := NewJob("https://example.test/jobs?currentJobId=9", "", "Acme · Remote")
	require.NoError(t, err)
	assert.Equal(t, "9", j.JobID)
	assert.Empty(t, j.Company)
	assert.Empty(t, j.Applicants)
}

func TestJobIDFromURL_Missing(t *testing.T) {
	_, err := JobIDFromURL("https://example.test/jobs/search?keywords=go")
	assert.Error(t, err)

	_, err = JobIDFromURL("://bad")
	assert.Error(t, err)
}

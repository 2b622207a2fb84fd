package app

import (
	"testing"

	"easy-apply/internal/config"
	"easy-apply/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestFiltersOf(t *testing.T) {
	cfg := &config.Config{Search: config.Search{
		Keyword:         "golang",
		Location:        "Berlin",
		WorkLocation:    "REMOTE",
		JobType:         "FULL_TIME",
		ExperienceLevel: "MID_SENIOR",
	}}
	want := usecase.Filters{
		Title:           "golang",
		Location:        "Berlin",
		WorkLocation:    "REMOTE",
		JobType:         "FULL_TIME",
		ExperienceLevel: "MID_SENIOR",
	}
	assert.Equal(t, want, FiltersOf(cfg))
	assert.Equal(t, want, (&App{Config: cfg}).Filters())
}

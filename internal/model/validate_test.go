package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuestions(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"empty list", `[]`, true},
		{"text entry", `[{"question": "Notice?", "type": "TEXT", "answer": "2 weeks"}]`, true},
		{"choice entry", `[{"question": "Remote?", "type": "DROPDOWN", "options": ["Yes", "No"], "answer": "Yes"}]`, true},
		{"choice without options", `[{"question": "Remote?", "type": "RADIO", "answer": "Yes"}]`, false},
		{"unknown type", `[{"question": "CV", "type": "FILE", "answer": "x"}]`, false},
		{"missing answer", `[{"question": "Notice?", "type": "TEXT"}]`, false},
		{"not a list", `{"question": "Notice?"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuestions([]byte(tc.doc))
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	ok := map[string]interface{}{
		"logs_dir":        "logs",
		"basic_questions": map[string]interface{}{"first_name": "Ada"},
		"search":          map[string]interface{}{"work_location": "REMOTE"},
	}
	assert.NoError(t, ValidateConfig(ok))

	assert.Error(t, ValidateConfig(map[string]interface{}{"logs_dir": "logs"}), "basic_questions is required")

	bad := map[string]interface{}{
		"logs_dir":        "logs",
		"basic_questions": map[string]interface{}{},
		"search":          map[string]interface{}{"job_type": "GIG"},
	}
	err := ValidateConfig(bad)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "job_type")
	}
}

package answers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"easy-apply/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBasics_BasicAnswer(t *testing.T) {
	b := Basics{KeyFirstName: "Ada", KeyDefaultExperience: 2}

	v, err := b.BasicAnswer(KeyFirstName)
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)

	v, err = b.BasicAnswer(KeyDefaultExperience)
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	_, err = b.BasicAnswer(KeyCity)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestBasics_ExperienceForms(t *testing.T) {
	var fromYAML Basics
	require.NoError(t, yaml.Unmarshal([]byte(`
experience:
  - years: 5
    skills: [go, kubernetes]
  - years: "2"
    skills: [python]
`), &fromYAML))

	list, err := fromYAML.Experience()
	require.NoError(t, err)
	assert.Equal(t, []Experience{
		{Years: "5", Skills: []string{"go", "kubernetes"}},
		{Years: "2", Skills: []string{"python"}},
	}, list)

	byYears := Basics{KeyExperience: map[string]any{
		"10": []any{"java"},
		"3":  []any{"python", "django"},
	}}
	list, err = byYears.Experience()
	require.NoError(t, err)
	assert.Equal(t, []Experience{
		{Years: "3", Skills: []string{"python", "django"}},
		{Years: "10", Skills: []string{"java"}},
	}, list)

	_, err = Basics{}.Experience()
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestCheckRequired(t *testing.T) {
	full := Basics{
		KeyFirstName: "a", KeyLastName: "b", KeyMobilePhoneNumber: "c", KeyEmailAddress: "d",
		KeyCity: "e", KeyExperience: []any{}, KeyDefaultExperience: "1",
	}
	assert.NoError(t, CheckRequired(NewJSONProvider(full, nil)))

	delete(full, KeyMobilePhoneNumber)
	err := CheckRequired(NewJSONProvider(full, nil))
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), KeyMobilePhoneNumber)
}

func TestJSONProvider_Answer(t *testing.T) {
	p := NewJSONProvider(nil, []Entry{
		{Question: "Notice period?", Type: domain.KindText, Answer: "2 weeks"},
		{Question: "Notice period?", Type: domain.KindText, Answer: "1 month"},
		{Question: "Do you drive?", Type: domain.KindRadio, Options: []string{"Yes", "No"}, Answer: "Yes"},
		{Question: "Level", Type: domain.KindDropdown, Options: []string{"Junior", "Senior"}, Answer: "Senior"},
	})
	ctx := context.Background()

	a, ok, err := p.Answer(ctx, "  NOTICE PERIOD? ", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1 month", a, "the last recorded entry wins")

	a, ok, _ = p.Answer(ctx, "do you drive?", []string{"No", "Yes"})
	assert.True(t, ok)
	assert.Equal(t, "Yes", a)

	_, ok, _ = p.Answer(ctx, "do you drive?", []string{"Yes", "No", "Sometimes"})
	assert.False(t, ok, "a different option set must not match")

	_, ok, _ = p.Answer(ctx, "do you drive?", nil)
	assert.False(t, ok, "choice entries do not answer text lookups")

	_, ok, _ = p.Answer(ctx, "notice period?", []string{"2 weeks"})
	assert.False(t, ok, "text entries do not answer choice lookups")

	_, ok, err = p.Answer(ctx, "unknown", nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadJSONProvider(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "questions.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
		{"question": "Salary expectation?", "type": "TEXT", "answer": "negotiable"},
		{"question": "Remote?", "type": "RADIO", "options": ["Yes", "No"], "answer": "Yes"}
	]`), 0o644))

	p, err := LoadJSONProvider(Basics{}, good)
	require.NoError(t, err)
	a, ok, err := p.Answer(context.Background(), "salary expectation?", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "negotiable", a)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"question": "Remote?", "type": "RADIO", "answer": "Yes"}]`), 0o644))
	_, err = LoadJSONProvider(Basics{}, bad)
	assert.Error(t, err, "choice entries need options")

	_, err = LoadJSONProvider(Basics{}, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

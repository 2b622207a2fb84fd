package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"easy-apply/internal/answers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
credentials:
  email: file@example.com
  password: from-file
search:
  keyword: golang
  work_location: REMOTE
basic_questions:
  first_name: Ada
  experience:
    - years: 3
      skills: [go]
  default_experience: 1
dev:
  test_mode: true
  args: ["--window-size=1280,900"]
timing:
  timeout: 4s
logs_dir: logs
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("EASYAPPLY_EMAIL", "")
	t.Setenv("EASYAPPLY_PASSWORD", "")
	t.Setenv("PORT", "")
	path := writeConfig(t, sampleConfig)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file@example.com", cfg.Credentials.Email)
	assert.Equal(t, "golang", cfg.Search.Keyword)
	assert.Equal(t, "REMOTE", cfg.Search.WorkLocation)
	assert.True(t, cfg.Dev.TestMode)
	assert.Equal(t, []string{"--window-size=1280,900"}, cfg.Dev.Args)

	assert.Equal(t, 4*time.Second, cfg.Timing.Timeout)
	assert.Equal(t, DefaultTiming().ShortTimeout, cfg.Timing.ShortTimeout, "unset timings keep their defaults")

	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogsDir)
	assert.Equal(t, filepath.Join(dir, "questions.json"), cfg.QuestionsFile)
	assert.Equal(t, filepath.Join(dir, "userData"), cfg.UserDataDir)
	assert.Equal(t, AnswersFromFile, cfg.AnswersSource)
	assert.Equal(t, "3000", cfg.Port)

	v, err := cfg.Basics.BasicAnswer("first_name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)
	exp, err := cfg.Basics.Experience()
	require.NoError(t, err)
	require.Len(t, exp, 1)
	assert.Equal(t, "3", exp[0].Years)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EASYAPPLY_EMAIL", "env@example.com")
	t.Setenv("EASYAPPLY_PASSWORD", "from-env")
	t.Setenv("EASYAPPLY_TEST_MODE", "false")
	t.Setenv("JOBS_DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("PORT", "8081")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", cfg.Credentials.Email)
	assert.Equal(t, "from-env", cfg.Credentials.Password)
	assert.False(t, cfg.Dev.TestMode)
	assert.Equal(t, "postgres://localhost/jobs", cfg.DatabaseURL)
	assert.Equal(t, "8081", cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "logs_dir: logs\n"))
	assert.Error(t, err, "basic_questions is required")

	_, err = Load(writeConfig(t, "logs_dir: logs\nbasic_questions: {}\nsearch:\n  job_type: GIG\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExperienceMapForm(t *testing.T) {
	path := writeConfig(t, `
logs_dir: logs
basic_questions:
  first_name: Ada
  experience:
    10: [cobol]
    3: [python, django]
  default_experience: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	table, err := cfg.Basics.Experience()
	require.NoError(t, err)
	assert.Equal(t, []answers.Experience{
		{Years: "3", Skills: []string{"python", "django"}},
		{Years: "10", Skills: []string{"cobol"}},
	}, table)
}

func TestStringKeys(t *testing.T) {
	in := map[string]interface{}{
		"experience": map[interface{}]interface{}{3: []interface{}{"go"}},
		"list":       []interface{}{map[interface{}]interface{}{true: "x"}},
		"name":       "Ada",
	}
	assert.Equal(t, map[string]interface{}{
		"experience": map[string]interface{}{"3": []interface{}{"go"}},
		"list":       []interface{}{map[string]interface{}{"true": "x"}},
		"name":       "Ada",
	}, stringKeys(in))
}

// Package config loads config.yaml and applies environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"easy-apply/internal/answers"
	"easy-apply/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Credentials   Credentials    `yaml:"credentials"`
	Search        Search         `yaml:"search"`
	Basics        answers.Basics `yaml:"basic_questions"`
	Dev           Dev            `yaml:"dev"`
	Timing        Timing         `yaml:"timing"`
	Pace          Pace           `yaml:"pace"`
	LogsDir       string         `yaml:"logs_dir"`
	QuestionsFile string         `yaml:"questions_file"`
	UserDataDir   string         `yaml:"user_data_dir"`
	DatabaseURL   string         `yaml:"database_url"`
	// AnswersSource selects where recorded answers are read from: "file"
	// (QuestionsFile, the default) or "database" (recorded_answers table).
	AnswersSource string         `yaml:"answers_source"`
	ChromePath    string         `yaml:"-"`
	Port          string         `yaml:"-"`
}

const (
	AnswersFromFile     = "file"
	AnswersFromDatabase = "database"
)

type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Search struct {
	Keyword         string `yaml:"keyword"`
	Location        string `yaml:"location"`
	WorkLocation    string `yaml:"work_location"`
	JobType         string `yaml:"job_type"`
	ExperienceLevel string `yaml:"experience_level"`
}

type Dev struct {
	TestMode bool     `yaml:"test_mode"`
	Headless bool     `yaml:"headless"`
	Args     []string `yaml:"args"`
}

// Timing holds the bounded waits and settle pauses of the browser flow.
type Timing struct {
	Timeout      time.Duration `yaml:"timeout"`
	ShortTimeout time.Duration `yaml:"short_timeout"`
	Settle       time.Duration `yaml:"settle"`
	StepSettle   time.Duration `yaml:"step_settle"`
	LoginSettle  time.Duration `yaml:"login_settle"`
}

type Pace struct {
	PerMinute float64 `yaml:"per_minute"`
}

// DefaultTiming mirrors the waits the site needs in practice.
func DefaultTiming() Timing {
	return Timing{
		Timeout:      10 * time.Second,
		ShortTimeout: 2 * time.Second,
		Settle:       time.Second,
		StepSettle:   500 * time.Millisecond,
		LoginSettle:  5 * time.Second,
	}
}

// Load reads the YAML config at path, validates it against the config schema
// and overlays environment variables (a .env file is honoured when present).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := model.ValidateConfig(stringKeys(doc).(map[string]interface{})); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg := &Config{Timing: DefaultTiming()}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if basics, ok := stringKeys(map[string]interface{}(cfg.Basics)).(map[string]interface{}); ok {
		cfg.Basics = basics
	}
	cfg.applyEnv()
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// stringKeys rewrites maps decoded with non-string keys, such as the years
// of the experience table, into map[string]interface{} so they can be
// encoded as JSON.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = stringKeys(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = stringKeys(e)
		}
		return out
	default:
		return v
	}
}

func (c *Config) applyEnv() {
	c.Credentials.Email = getEnv("EASYAPPLY_EMAIL", c.Credentials.Email)
	c.Credentials.Password = getEnv("EASYAPPLY_PASSWORD", c.Credentials.Password)
	c.DatabaseURL = getEnv("JOBS_DATABASE_URL", c.DatabaseURL)
	c.ChromePath = getEnv("CHROME_PATH", "")
	c.Port = getEnv("PORT", "3000")
	c.Dev.TestMode = getEnvAsBool("EASYAPPLY_TEST_MODE", c.Dev.TestMode)
	c.Dev.Headless = getEnvAsBool("EASYAPPLY_HEADLESS", c.Dev.Headless)
}

// resolvePaths makes relative file locations relative to the config file.
func (c *Config) resolvePaths(base string) {
	if c.QuestionsFile == "" {
		c.QuestionsFile = "questions.json"
	}
	if c.AnswersSource == "" {
		c.AnswersSource = AnswersFromFile
	}
	if c.UserDataDir == "" {
		c.UserDataDir = "userData"
	}
	for _, p := range []*string{&c.LogsDir, &c.QuestionsFile, &c.UserDataDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"easy-apply/internal/answers"
	"easy-apply/internal/app"
	"easy-apply/internal/config"
	"easy-apply/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	configPath string
	testMode   bool
	headless   bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "easyapply",
	Short: "Apply to Easy Apply job postings with recorded answers",
}

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Log in, search and apply to the first page of results",
	Long: `Log in, apply the configured search filters and go through the first page
of results. Questions without a recorded answer are written to
unprepared_questions.json in the logs directory.

Example:
  easyapply run --config config.yaml --test-mode`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

//nolint:gochecknoglobals // Cobra boilerplate
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config and recorded answers without opening a browser",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")
	runCmd.Flags().BoolVar(&testMode, "test-mode", false, "Fill every step but never submit (overrides dev.test_mode when set)")
	runCmd.Flags().BoolVar(&headless, "headless", false, "Run Chrome headless (overrides dev.headless when set)")
	rootCmd.AddCommand(runCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApply(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Dev.Headless = headless
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var opts app.Options
	if cmd.Flags().Changed("test-mode") {
		opts.TestMode = &testMode
	}
	run, err := a.RunFunc(opts)
	if err != nil {
		return err
	}

	sum, err := run(ctx, uuid.New(), promptOTP)
	if sum != nil {
		log.Printf("processed %d entries, %d skipped: %v", sum.Entries, sum.Skipped, sum.ByStatus)
	}
	return err
}

func runValidate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := answers.CheckRequired(answers.NewJSONProvider(cfg.Basics, nil)); err != nil {
		return err
	}
	if cfg.AnswersSource == config.AnswersFromFile {
		if _, err := answers.LoadJSONProvider(cfg.Basics, cfg.QuestionsFile); err != nil {
			return err
		}
	}
	f := app.FiltersOf(cfg)
	u, err := f.SearchURL(usecase.DefaultBaseURL)
	if err != nil {
		return err
	}
	fmt.Printf("config ok, search url: %s\n", u)
	return nil
}

// promptOTP reads the verification code from the terminal.
func promptOTP(ctx context.Context) (string, error) {
	fmt.Print("Enter the verification code sent to you: ")
	lines := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			errs <- err
			return
		}
		lines <- line
	}()
	select {
	case line := <-lines:
		return strings.TrimSpace(line), nil
	case err := <-errs:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Command smoke drives a local copy of the Easy Apply pages through a real
// Chrome in test mode and prints what was recorded.
package main

import (
	"context"
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"easy-apply/internal/adapter/repository"
	"easy-apply/internal/answers"
	"easy-apply/internal/config"
	"easy-apply/internal/usecase"
	"easy-apply/pkg/infrastructure"

	"github.com/google/uuid"
)

//go:embed fixture/*.html
var fixture embed.FS

func startFixture(l net.Listener) *http.Server {
	mux := http.NewServeMux()
	page := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			b, err := fixture.ReadFile("fixture/" + name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(b)
		}
	}
	mux.HandleFunc("/login", page("login.html"))
	mux.HandleFunc("/jobs/search", page("search.html"))

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Fatalf("fixture server failed: %v", err)
		}
	}()
	return srv
}

func main() {
	headless := flag.Bool("headless", true, "Run Chrome headless")
	logsDir := flag.String("logs", "", "Directory for the recorded files (default: a temp dir)")
	flag.Parse()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	srv := startFixture(l)
	defer srv.Shutdown(context.Background())

	dir := *logsDir
	if dir == "" {
		if dir, err = os.MkdirTemp("", "easyapply-smoke-"); err != nil {
			log.Fatalf("temp dir: %v", err)
		}
	}
	rec, err := repository.NewFileRecorder(dir)
	if err != nil {
		log.Fatalf("recorder: %v", err)
	}

	kb := answers.NewJSONProvider(answers.Basics{
		answers.KeyFirstName:         "Ada",
		answers.KeyLastName:          "Lovelace",
		answers.KeyMobilePhoneNumber: "+44 20 0000 0000",
		answers.KeyEmailAddress:      "ada@example.com",
		answers.KeyCity:              "London",
		answers.KeyExperience:        []any{map[string]any{"years": "5", "skills": []any{"Go", "Postgres"}}},
		answers.KeyDefaultExperience: "2",
	}, nil)

	timing := config.Timing{
		Timeout:      3 * time.Second,
		ShortTimeout: 500 * time.Millisecond,
		Settle:       200 * time.Millisecond,
		StepSettle:   200 * time.Millisecond,
		LoginSettle:  200 * time.Millisecond,
	}
	rc := usecase.NewRunContext(uuid.Nil, kb, rec, timing, true, 0)
	rc.BaseURL = "http://" + l.Addr().String()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	browser, err := infrastructure.NewChromeBrowser(ctx, infrastructure.ChromeOptions{
		Headless:      *headless,
		ExecPath:      os.Getenv("CHROME_PATH"),
		ActionTimeout: timing.Timeout,
	})
	if err != nil {
		log.Fatalf("chrome: %v", err)
	}

	runner := usecase.NewRunner(rc, usecase.Credentials{Username: "smoke", Password: "smoke"}, usecase.Filters{Title: "go"}, nil)
	sum, err := runner.Run(ctx, browser)
	if err != nil {
		fmt.Printf("Run failed: %v\n", err)
		os.Exit(1)
	}

	unprepared, _ := rec.Unprepared(ctx)
	attempts, _ := rec.Attempts(ctx)
	out, _ := json.MarshalIndent(map[string]interface{}{
		"summary":    sum,
		"unprepared": unprepared,
		"attempts":   attempts,
		"logs_dir":   dir,
	}, "", "  ")
	fmt.Println(string(out))
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpadapter "easy-apply/internal/adapter/http"
	"easy-apply/internal/app"
	"easy-apply/internal/config"
	"easy-apply/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := os.Getenv("EASYAPPLY_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}
	defer a.Close()

	build := func(o httpadapter.RunOptions) (usecase.RunFunc, error) {
		return a.RunFunc(app.Options{Filters: o.Filters, TestMode: o.TestMode})
	}

	srv := fiber.New()
	srv.Use(recover.New())
	srv.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	runs := usecase.NewRuns()
	h := httpadapter.NewHandler(ctx, runs, build, a.Reports())
	h.Register(srv)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("shutting down server")
		cancel()
		if err := srv.Shutdown(); err != nil {
			log.Printf("server forced to shutdown: %v", err)
		}
	}()

	if err := srv.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
	// the active run records its last attempt and closes the browser
	cancel()
	runs.Wait()
	log.Println("server stopped")
}

// Command generate runs the pipeline once for a request file and prints the entity.
//
//	generate -kind course -file course.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tuteai/internal/bootstrap"
	"tuteai/internal/config"
	"tuteai/internal/domain"
	"tuteai/internal/logger"
	"tuteai/internal/validation"

	"go.uber.org/zap"
)

func main() {
	kind := flag.String("kind", "", "entity kind: course, module, lesson or quiz")
	file := flag.String("file", "", "path to the request JSON file ('-' for stdin)")
	flag.Parse()

	if err := run(domain.EntityKind(*kind), *file); err != nil {
		fmt.Fprintln(os.Stderr, "generate:", err)
		os.Exit(1)
	}
}

func run(kind domain.EntityKind, file string) error {
	req, err := newRequest(kind)
	if err != nil {
		return err
	}
	if err := readRequest(file, req); err != nil {
		return err
	}
	if err := validation.NewValidator().Validate(req); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return err
	}
	log := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeCache := bootstrap.NewCache(cfg, log)
	defer closeCache()

	svc, model, err := bootstrap.NewGenerationService(ctx, cfg, store, log)
	if err != nil {
		return err
	}
	defer svc.Wait()

	log.Info("Generating", zap.String("kind", string(kind)), zap.String("model", model))
	entity, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entity)
}

func newRequest(kind domain.EntityKind) (domain.GenerationRequest, error) {
	switch kind {
	case domain.KindCourse:
		return &domain.CourseRequest{}, nil
	case domain.KindModule:
		return &domain.ModuleRequest{}, nil
	case domain.KindLesson:
		return &domain.LessonRequest{}, nil
	case domain.KindQuiz:
		return &domain.QuizRequest{}, nil
	default:
		return nil, domain.NewUnknownKindError(kind)
	}
}

func readRequest(path string, req domain.GenerationRequest) error {
	if path == "" {
		return fmt.Errorf("-file is required")
	}
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if err := json.NewDecoder(in).Decode(req); err != nil {
		return fmt.Errorf("failed to decode %s request: %w", req.Kind(), err)
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tuteai/internal/domain"
	"tuteai/internal/payload"
	"tuteai/internal/prompt"
	"tuteai/internal/schema"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const backgroundWriteTimeout = 10 * time.Second

// GenerationService runs the structured-generation pipeline for every level of
// the course hierarchy.
type GenerationService struct {
	client    *GenerationClient
	compiler  *prompt.Compiler
	repairer  *schema.Repairer
	contexts  ContextStore
	responses ResponseCache
	artifacts domain.ArtifactRepository
	logger    *zap.Logger
	now       func() time.Time

	inflight singleflight.Group
	pending  sync.WaitGroup
}

type Option func(*GenerationService)

// WithArtifactRepository persists every generated entity in the background.
func WithArtifactRepository(repo domain.ArtifactRepository) Option {
	return func(s *GenerationService) { s.artifacts = repo }
}

// WithClock overrides the time source used for course metadata.
func WithClock(now func() time.Time) Option {
	return func(s *GenerationService) { s.now = now }
}

func NewGenerationService(client *GenerationClient, contexts ContextStore, responses ResponseCache, logger *zap.Logger, opts ...Option) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if contexts == nil {
		contexts = noopContextStore{}
	}
	if responses == nil {
		responses = noopResponseCache{}
	}
	s := &GenerationService{
		client:    client,
		compiler:  prompt.NewCompiler(),
		repairer:  schema.NewRepairer(),
		contexts:  contexts,
		responses: responses,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GenerationService) PlanCourse(ctx context.Context, req *domain.CourseRequest) (*domain.Course, error) {
	return generateAs[*domain.Course](ctx, s, req)
}

func (s *GenerationService) PlanModule(ctx context.Context, req *domain.ModuleRequest) (*domain.Module, error) {
	return generateAs[*domain.Module](ctx, s, req)
}

func (s *GenerationService) CreateLessonContent(ctx context.Context, req *domain.LessonRequest) (*domain.Lesson, error) {
	return generateAs[*domain.Lesson](ctx, s, req)
}

func (s *GenerationService) CreateQuiz(ctx context.Context, req *domain.QuizRequest) (*domain.Quiz, error) {
	return generateAs[*domain.Quiz](ctx, s, req)
}

func generateAs[T domain.Entity](ctx context.Context, s *GenerationService, req domain.GenerationRequest) (T, error) {
	var zero T
	entity, err := s.Generate(ctx, req)
	if err != nil {
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		return zero, domain.NewInternalError(fmt.Sprintf("unexpected entity type %T", entity), nil)
	}
	return typed, nil
}

// Generate returns a schema-conformant entity for req. The only errors are an
// unknown kind, a generator that failed on every attempt, and the caller's own
// ctx ending first.
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (domain.Entity, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("generation request is required")
	}
	kind := req.Kind()
	if _, ok := schema.For(kind); !ok {
		return nil, domain.NewUnknownKindError(kind)
	}

	norm := req.Normalized()
	fingerprint, err := Fingerprint(norm)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("kind", string(kind)), zap.String("fingerprint", fingerprint))

	cached, err := s.responses.Get(ctx, kind, fingerprint)
	if err != nil {
		log.Warn("Response cache lookup failed, treating as miss", zap.Error(err))
	} else if cached != nil {
		log.Info("Serving cached generation response", zap.String("entity_id", cached.EntityID()))
		return cached, nil
	}

	// The shared generation outlives any single caller; each caller stops
	// waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(string(kind)+":"+fingerprint, func() (any, error) {
		return s.produce(shared, norm, fingerprint, log)
	})
	select {
	case <-ctx.Done():
		log.Info("Caller left before generation finished", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug("Joined an in-flight generation for the same request")
		}
		return res.Val.(domain.Entity), nil
	}
}

func (s *GenerationService) produce(ctx context.Context, req domain.GenerationRequest, fingerprint string, log *zap.Logger) (domain.Entity, error) {
	kind := req.Kind()
	ancestry := s.loadAncestry(ctx, req, log)

	text, err := s.compiler.Compile(req, ancestry)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	res := payload.Extract(raw)
	if !res.OK() {
		log.Warn("Generator output is not a JSON object, repairing from request", zap.Error(res.Err), zap.Int("response_chars", len(raw)))
	}

	hints := req.Hints()
	if parent := ancestry.Of(kind.Parent()); parent != nil {
		hints.ParentTitle = parent.Title
	}
	entity, report, err := s.repairer.Build(kind, res, hints)
	if err != nil {
		return nil, err
	}
	if len(report.Repaired) > 0 {
		log.Info("Repaired generated payload", zap.Int("repaired_fields", len(report.Repaired)), zap.Strings("paths", report.Repaired))
	}

	s.finalize(req, entity)
	log.Info("Generated entity", zap.String("entity_id", entity.EntityID()))

	var rec *domain.ContextRecord
	if projector, ok := req.(domain.ContextProjector); ok {
		rec = projector.ProjectContext(entity)
	}
	s.dispatchWrites(ctx, req, fingerprint, entity, rec, log)
	return entity, nil
}

// loadAncestry walks parent ids upward from the direct parent. An absent direct
// parent is replaced by its fallback context; the walk stops at the first gap.
func (s *GenerationService) loadAncestry(ctx context.Context, req domain.GenerationRequest, log *zap.Logger) domain.Ancestry {
	var ancestry domain.Ancestry
	kind, id := req.Kind().Parent(), req.ParentID()

	for kind != "" && id != "" {
		rec, err := s.contexts.Get(ctx, kind, id)
		if err != nil {
			log.Warn("Context store lookup failed, treating as absent", zap.String("parent_kind", string(kind)), zap.Error(err))
			rec = nil
		}
		if rec == nil {
			if len(ancestry) == 0 {
				log.Info("Parent context unavailable, using fallback", zap.String("parent_kind", string(kind)), zap.String("parent_id", id))
				ancestry = append(ancestry, domain.FallbackContext(kind, id))
			}
			break
		}
		ancestry = append(ancestry, rec)
		kind, id = kind.Parent(), rec.ParentID
	}
	return ancestry
}

func (s *GenerationService) finalize(req domain.GenerationRequest, entity domain.Entity) {
	course, ok := entity.(*domain.Course)
	if !ok {
		return
	}
	r, ok := req.(*domain.CourseRequest)
	if !ok {
		return
	}
	course.Metadata = &domain.CourseMetadata{
		CreatedAt:       s.now().UTC(),
		DifficultyLevel: string(r.DifficultyLevel),
		PreferredFormat: string(r.PreferredFormat),
		ContentStyle:    string(r.ContentStyle),
	}
	if !r.WantsResources() {
		course.RecommendedResources = nil
	}
}

// dispatchWrites stores the response, the context record and the artifact
// after the response is determined. Failures are logged and dropped.
func (s *GenerationService) dispatchWrites(ctx context.Context, req domain.GenerationRequest, fingerprint string, entity domain.Entity, rec *domain.ContextRecord, log *zap.Logger) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundWriteTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		var g errgroup.Group
		g.Go(func() error {
			if err := s.responses.Put(bg, fingerprint, entity); err != nil {
				log.Warn("Failed to cache generation response", zap.Error(err))
			}
			return nil
		})
		if rec != nil {
			g.Go(func() error {
				if err := s.contexts.Put(bg, rec); err != nil {
					log.Warn("Failed to store context record", zap.String("entity_id", rec.EntityID), zap.Error(err))
				}
				return nil
			})
		}
		if s.artifacts != nil {
			g.Go(func() error {
				if err := s.saveArtifact(bg, req, entity); err != nil {
					log.Warn("Failed to persist artifact", zap.String("entity_id", entity.EntityID()), zap.Error(err))
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (s *GenerationService) saveArtifact(ctx context.Context, req domain.GenerationRequest, entity domain.Entity) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	return s.artifacts.Save(ctx, &domain.Artifact{
		ID:        entity.EntityID(),
		Kind:      entity.Kind(),
		ParentID:  req.ParentID(),
		Payload:   data,
		CreatedAt: s.now().UTC(),
	})
}

// GetArtifact returns a persisted entity by id.
func (s *GenerationService) GetArtifact(ctx context.Context, id string) (*domain.Artifact, error) {
	if s.artifacts == nil {
		return nil, domain.NewNotFoundError("artifact storage is not configured")
	}
	return s.artifacts.GetByID(ctx, id)
}

// InvalidateContext removes the stored context of an entity; descendants fall back.
func (s *GenerationService) InvalidateContext(ctx context.Context, kind domain.EntityKind, id string) error {
	return s.contexts.Delete(ctx, kind, id)
}

// InvalidateResponse drops the memoized response for req.
func (s *GenerationService) InvalidateResponse(ctx context.Context, req domain.GenerationRequest) error {
	fingerprint, err := Fingerprint(req)
	if err != nil {
		return err
	}
	return s.responses.Delete(ctx, req.Kind(), fingerprint)
}

// Wait blocks until every background write dispatched so far has finished.
func (s *GenerationService) Wait() {
	s.pending.Wait()
}

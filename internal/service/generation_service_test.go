package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tuteai/internal/adapter"
	"tuteai/internal/domain"
	"tuteai/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedGenerator returns replies in order and records every prompt.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string, _ domain.SamplingOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", nil
	}
	reply := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return reply, nil
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *scriptedGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prompts[len(g.prompts)-1]
}

func noSleepPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	p.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return p
}

func newTestService(gen domain.Generator, c domain.Cache, opts ...Option) *GenerationService {
	client := NewGenerationClient(gen, noSleepPolicy(), domain.DefaultSamplingOptions(), zap.NewNop())
	return NewGenerationService(client, NewContextStore(c, time.Hour), NewResponseCache(c, time.Hour), zap.NewNop(), opts...)
}

func courseRequest() *domain.CourseRequest {
	return &domain.CourseRequest{
		Title:              "Intro to X",
		Description:        "Everything about X",
		LearningObjectives: []string{"Explain X", "Apply X"},
	}
}

func TestGenerate_GarbageOutputYieldsDefaultEntity(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"Sorry, I can't produce JSON today."}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))

	course, err := svc.PlanCourse(context.Background(), courseRequest())
	require.NoError(t, err)
	svc.Wait()

	assert.True(t, util.IsID(course.CourseID, domain.PrefixCourse))
	assert.Equal(t, "Intro to X", course.CourseTitle)
	assert.Equal(t, "Everything about X", course.CourseDescription)
	assert.Equal(t, []string{"Explain X", "Apply X"}, course.LearningOutcomes)
	require.Len(t, course.Modules, 1)
	assert.True(t, util.IsID(course.Modules[0].ModuleID, domain.PrefixModule))
	require.NotNil(t, course.Metadata)
	assert.Equal(t, "intermediate", course.Metadata.DifficultyLevel)
	assert.Equal(t, "text-heavy", course.Metadata.PreferredFormat)
}

func TestGenerate_FencedCourseMissingModulesGetsPlaceholderModule(t *testing.T) {
	reply := "Here is your course:\n```json\n" + `{
		"course_title": "Intro to X",
		"course_description": "Everything about X",
		"course_introduction": "Welcome!",
		"learning_outcomes": ["Explain X", "Apply X"],
		"prerequisites": ["None"],
		"target_audience_description": "Curious people",
		"estimated_total_duration": "2 weeks"
	}` + "\n```\nGood luck!"
	gen := &scriptedGenerator{replies: []string{reply}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))

	course, err := svc.PlanCourse(context.Background(), courseRequest())
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, "Welcome!", course.CourseIntroduction)
	assert.Equal(t, "Curious people", course.TargetAudienceDescription)
	require.NotEmpty(t, course.Modules)
	assert.Regexp(t, `^mod_[0-9a-z]+$`, course.Modules[0].ModuleID)
	assert.Equal(t, "Module 1", course.Modules[0].ModuleTitle)
}

func TestGenerate_IdenticalRequestsInvokeGeneratorOnce(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`{"course_title": "Cached"}`}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))
	ctx := context.Background()

	first, err := svc.PlanCourse(ctx, courseRequest())
	require.NoError(t, err)
	svc.Wait()

	// Differs only in whitespace and explicit defaults.
	again := courseRequest()
	again.Title = "  Intro to X  "
	again.DifficultyLevel = domain.DifficultyIntermediate
	second, err := svc.PlanCourse(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, first.CourseID, second.CourseID)
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestGenerate_ModulePromptCarriesStoredCourseContext(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		`{"course_title": "Distributed Systems", "course_description": "Consensus and replication", "target_audience_description": "Backend engineers"}`,
		`{"module_introduction": "Raft", "lessons": [{"lesson_title": "Elections"}]}`,
	}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))
	ctx := context.Background()

	course, err := svc.PlanCourse(ctx, courseRequest())
	require.NoError(t, err)
	svc.Wait()

	module, err := svc.PlanModule(ctx, &domain.ModuleRequest{
		CourseID:      course.CourseID,
		ModuleTitle:   "Consensus",
		ModuleSummary: "Agreeing on a log",
	})
	require.NoError(t, err)
	svc.Wait()

	p := gen.lastPrompt()
	assert.Contains(t, p, "COURSE TITLE: Distributed Systems")
	assert.Contains(t, p, "COURSE DESCRIPTION: Consensus and replication")
	assert.Contains(t, p, "TARGET AUDIENCE: Backend engineers")
	assert.Equal(t, course.CourseID, module.CourseID)
	assert.Equal(t, "Elections", module.Lessons[0].LessonTitle)
}

func TestGenerate_MissingParentContextFallsBack(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`{}`}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))

	module, err := svc.PlanModule(context.Background(), &domain.ModuleRequest{
		CourseID:      "course_never_stored",
		ModuleTitle:   "Consensus",
		ModuleSummary: "Agreeing on a log",
	})
	require.NoError(t, err)
	svc.Wait()

	p := gen.lastPrompt()
	assert.Contains(t, p, "COURSE TITLE: Course")
	assert.Contains(t, p, "COURSE DESCRIPTION: Course description not available")
	require.Len(t, module.Lessons, 1)
	assert.True(t, util.IsID(module.Lessons[0].LessonID, domain.PrefixLesson))
}

func TestGenerate_QuizSeesWholeAncestry(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		`{"course_title": "Go Programming", "course_description": "Learn Go"}`,
		`{"lessons": [{"lesson_title": "Goroutines"}]}`,
		`{"sections": [{"heading": "Spawning", "content": "go f()", "importance": 3}]}`,
		`{"questions": [{"question": "Keyword?", "options": ["A. go", "B. spawn"], "correct_answer": "C. thread"}]}`,
	}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))
	ctx := context.Background()

	course, err := svc.PlanCourse(ctx, courseRequest())
	require.NoError(t, err)
	svc.Wait()
	module, err := svc.PlanModule(ctx, &domain.ModuleRequest{CourseID: course.CourseID, ModuleTitle: "Concurrency", ModuleSummary: "Go concurrency"})
	require.NoError(t, err)
	svc.Wait()
	lesson, err := svc.CreateLessonContent(ctx, &domain.LessonRequest{ModuleID: module.ModuleID, LessonTitle: "Goroutines", LessonObjective: "Start concurrent work"})
	require.NoError(t, err)
	svc.Wait()
	quiz, err := svc.CreateQuiz(ctx, &domain.QuizRequest{LessonID: lesson.LessonID, DifficultyLevel: domain.DifficultyBeginner})
	require.NoError(t, err)
	svc.Wait()

	p := gen.lastPrompt()
	assert.Contains(t, p, "COURSE TITLE: Go Programming")
	assert.Contains(t, p, "MODULE TITLE: Concurrency")
	assert.Contains(t, p, "LESSON TITLE: Goroutines")
	assert.Contains(t, p, "LESSON OBJECTIVE: Start concurrent work")

	assert.Equal(t, lesson.LessonID, quiz.LessonID)
	assert.Equal(t, "beginner", quiz.DifficultyLevel)
	assert.Equal(t, "Test your knowledge of Goroutines.", quiz.QuizIntroduction)
	for _, q := range quiz.Questions {
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
	assert.Equal(t, "A. go", quiz.Questions[0].CorrectAnswer)
}

func TestGenerate_StoreFailuresAreNotEscalated(t *testing.T) {
	failing := new(MockCache)
	failing.On("Get", mock.Anything, mock.Anything).Return("", errors.New("redis down"))
	failing.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	gen := &scriptedGenerator{replies: []string{`{"introduction": "Hi"}`}}
	svc := newTestService(gen, failing)

	lesson, err := svc.CreateLessonContent(context.Background(), &domain.LessonRequest{
		ModuleID:        "mod_x",
		LessonTitle:     "Pointers",
		LessonObjective: "Use pointers",
	})
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, "Hi", lesson.Introduction)
	assert.Contains(t, gen.lastPrompt(), "MODULE TITLE: Module")
	failing.AssertCalled(t, "Set", mock.Anything, mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, "tuteai:context:lesson:")
	}), mock.Anything, time.Hour)
}

func TestGenerate_GeneratorFailureIsSurfaced(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("503 service unavailable")}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))

	_, err := svc.PlanCourse(context.Background(), courseRequest())
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrLLMServiceError))
	assert.Equal(t, 3, gen.calls())
}

type syllabusRequest struct{ *domain.CourseRequest }

func (syllabusRequest) Kind() domain.EntityKind { return "syllabus" }

func TestGenerate_UnknownKindIsFatal(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`{}`}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))

	_, err := svc.Generate(context.Background(), syllabusRequest{courseRequest()})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrUnknownEntityKind))
	assert.Zero(t, gen.calls())

	_, err = svc.Generate(context.Background(), nil)
	assert.True(t, domain.HasCode(err, domain.ErrInvalidInput))
}

func TestGenerate_ResourcesDroppedWhenNotRequested(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`{"recommended_resources": [{"title": "Book"}]}`}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))

	include := false
	req := courseRequest()
	req.IncludeResources = &include
	course, err := svc.PlanCourse(context.Background(), req)
	require.NoError(t, err)
	svc.Wait()

	assert.Nil(t, course.RecommendedResources)
	assert.NotContains(t, gen.lastPrompt(), "recommended_resources")
}

func TestGenerate_PersistsArtifact(t *testing.T) {
	repo := new(MockArtifactRepository)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(a *domain.Artifact) bool {
		return a.Kind == domain.KindLesson && a.ParentID == "mod_1" && a.CreatedAt.Equal(fixed) && len(a.Payload) > 0
	})).Return(nil).Once()

	gen := &scriptedGenerator{replies: []string{`{}`}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100),
		WithArtifactRepository(repo),
		WithClock(func() time.Time { return fixed }),
	)

	lesson, err := svc.CreateLessonContent(context.Background(), &domain.LessonRequest{ModuleID: "mod_1", LessonTitle: "L", LessonObjective: "O"})
	require.NoError(t, err)
	svc.Wait()

	repo.AssertExpectations(t)
	saved := repo.Calls[0].Arguments.Get(1).(*domain.Artifact)
	assert.Equal(t, lesson.LessonID, saved.ID)
}

func TestGenerate_ArtifactFailureDoesNotFailResponse(t *testing.T) {
	repo := new(MockArtifactRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	gen := &scriptedGenerator{replies: []string{`{}`}}
	svc := newTestService(gen, nil, WithArtifactRepository(repo))

	_, err := svc.CreateQuiz(context.Background(), &domain.QuizRequest{LessonID: "les_1"})
	require.NoError(t, err)
	svc.Wait()
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestInvalidate(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`{"course_title": "Original"}`, `{"course_title": "Regenerated"}`, `{}`}}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))
	ctx := context.Background()

	course, err := svc.PlanCourse(ctx, courseRequest())
	require.NoError(t, err)
	svc.Wait()

	require.NoError(t, svc.InvalidateResponse(ctx, courseRequest()))
	again, err := svc.PlanCourse(ctx, courseRequest())
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, "Regenerated", again.CourseTitle)
	assert.NotEqual(t, course.CourseID, again.CourseID)

	require.NoError(t, svc.InvalidateContext(ctx, domain.KindCourse, again.CourseID))
	_, err = svc.PlanModule(ctx, &domain.ModuleRequest{CourseID: again.CourseID, ModuleTitle: "M", ModuleSummary: "S"})
	require.NoError(t, err)
	svc.Wait()
	assert.Contains(t, gen.lastPrompt(), "COURSE TITLE: Course\n")
}

// gatedGenerator blocks every call until release is closed or ctx ends.
type gatedGenerator struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	n       int
}

func (g *gatedGenerator) Generate(ctx context.Context, _ string, _ domain.SamplingOptions) (string, error) {
	g.mu.Lock()
	g.n++
	g.mu.Unlock()
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return `{"introduction": "Shared"}`, nil
	case <-ctx.Done():
		return "", domain.Permanent(ctx.Err())
	}
}

func TestGenerate_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	gen := &gatedGenerator{started: make(chan struct{}), release: make(chan struct{})}
	svc := newTestService(gen, adapter.NewMemoryCacheAdapter(100))
	req := &domain.LessonRequest{ModuleID: "mod_x", LessonTitle: "Channels", LessonObjective: "Pass values"}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.CreateLessonContent(firstCtx, req)
		firstErr <- err
	}()
	<-gen.started

	type result struct {
		lesson *domain.Lesson
		err    error
	}
	second := make(chan result, 1)
	go func() {
		lesson, err := svc.CreateLessonContent(context.Background(), req)
		second <- result{lesson, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(gen.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "Shared", res.lesson.Introduction)
	svc.Wait()

	gen.mu.Lock()
	defer gen.mu.Unlock()
	assert.Equal(t, 1, gen.n)
}

func TestGenerate_ExpiredParentContextFallsBack(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		`{"course_title": "Distributed Systems", "course_description": "Consensus and replication"}`,
		`{}`,
	}}
	store := adapter.NewMemoryCacheAdapter(100)
	client := NewGenerationClient(gen, noSleepPolicy(), domain.DefaultSamplingOptions(), zap.NewNop())
	svc := NewGenerationService(client, NewContextStore(store, 50*time.Millisecond), NewResponseCache(store, time.Hour), zap.NewNop())
	ctx := context.Background()

	course, err := svc.PlanCourse(ctx, courseRequest())
	require.NoError(t, err)
	svc.Wait()

	time.Sleep(120 * time.Millisecond)

	_, err = svc.PlanModule(ctx, &domain.ModuleRequest{
		CourseID:      course.CourseID,
		ModuleTitle:   "Consensus",
		ModuleSummary: "Agreeing on a log",
	})
	require.NoError(t, err)
	svc.Wait()

	p := gen.lastPrompt()
	assert.Contains(t, p, "COURSE TITLE: Course")
	assert.NotContains(t, p, "Distributed Systems")
}

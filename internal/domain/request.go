package domain

import "strings"

// GenerationRequest is the immutable input for one hierarchy level.
type GenerationRequest interface {
	Kind() EntityKind
	// ParentID is the identifier of the parent entity, empty for a course.
	ParentID() string
	// Hints exposes the human readable fields used to derive repair defaults.
	Hints() Hints
	// Normalized returns a copy with defaults applied and strings trimmed.
	Normalized() GenerationRequest
}

// ContextProjector is implemented by requests whose entities seed context for the next level.
type ContextProjector interface {
	ProjectContext(entity Entity) *ContextRecord
}

// Hints carries the request-derived text the repairer falls back on.
type Hints struct {
	Title      string
	Summary    string
	Audience   string
	Difficulty string
	Items      []string
	ParentID   string
	// ParentTitle is filled by the pipeline from the loaded parent context.
	ParentTitle string
}

// CourseRequest asks for a course plan.
type CourseRequest struct {
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	TargetAudience       string          `json:"target_audience,omitempty"`
	TimeAvailable        string          `json:"time_available,omitempty"`
	LearningObjectives   []string        `json:"learning_objectives,omitempty"`
	PreferredFormat      ContentFormat   `json:"preferred_format,omitempty"`
	DifficultyLevel      DifficultyLevel `json:"difficulty_level,omitempty"`
	ContentStyle         ContentStyle    `json:"content_style,omitempty"`
	Prerequisites        []string        `json:"prerequisites,omitempty"`
	IndustryFocus        string          `json:"industry_focus,omitempty"`
	AssessmentPreference AssessmentType  `json:"assessment_preference,omitempty"`
	SkillsToDevelop      []string        `json:"skills_to_develop,omitempty"`
	IncludeResources     *bool           `json:"include_resources,omitempty"`
}

func (r *CourseRequest) Kind() EntityKind { return KindCourse }
func (r *CourseRequest) ParentID() string { return "" }

func (r *CourseRequest) Hints() Hints {
	return Hints{
		Title:      r.Title,
		Summary:    r.Description,
		Audience:   r.TargetAudience,
		Difficulty: string(r.DifficultyLevel),
		Items:      r.LearningObjectives,
	}
}

func (r *CourseRequest) Normalized() GenerationRequest {
	n := *r
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	n.TargetAudience = strings.TrimSpace(n.TargetAudience)
	n.TimeAvailable = strings.TrimSpace(n.TimeAvailable)
	n.IndustryFocus = strings.TrimSpace(n.IndustryFocus)
	n.LearningObjectives = trimList(n.LearningObjectives)
	n.Prerequisites = trimList(n.Prerequisites)
	n.SkillsToDevelop = trimList(n.SkillsToDevelop)
	if n.PreferredFormat == "" {
		n.PreferredFormat = FormatTextHeavy
	}
	if n.DifficultyLevel == "" {
		n.DifficultyLevel = DifficultyIntermediate
	}
	if n.ContentStyle == "" {
		n.ContentStyle = StyleConversational
	}
	if n.AssessmentPreference == "" {
		n.AssessmentPreference = AssessmentQuiz
	}
	if n.IncludeResources == nil {
		include := true
		n.IncludeResources = &include
	}
	return &n
}

// WantsResources reports whether recommended resources should be kept.
func (r *CourseRequest) WantsResources() bool {
	return r.IncludeResources == nil || *r.IncludeResources
}

func (r *CourseRequest) ProjectContext(entity Entity) *ContextRecord {
	course, ok := entity.(*Course)
	if !ok {
		return nil
	}
	return &ContextRecord{
		Kind:       KindCourse,
		EntityID:   course.CourseID,
		Title:      course.CourseTitle,
		Summary:    course.CourseDescription,
		Audience:   course.TargetAudienceDescription,
		Difficulty: string(r.DifficultyLevel),
		Style:      string(r.ContentStyle),
	}
}

// ModuleRequest asks for the plan of one module of a course.
type ModuleRequest struct {
	CourseID        string          `json:"course_id"`
	ModuleTitle     string          `json:"module_title"`
	ModuleSummary   string          `json:"module_summary"`
	KeyConcepts     []string        `json:"key_concepts,omitempty"`
	DifficultyLevel DifficultyLevel `json:"difficulty_level,omitempty"`
	ContentStyle    ContentStyle    `json:"content_style,omitempty"`
}

func (r *ModuleRequest) Kind() EntityKind { return KindModule }
func (r *ModuleRequest) ParentID() string { return r.CourseID }

func (r *ModuleRequest) Hints() Hints {
	return Hints{
		Title:      r.ModuleTitle,
		Summary:    r.ModuleSummary,
		Difficulty: string(r.DifficultyLevel),
		Items:      r.KeyConcepts,
		ParentID:   r.CourseID,
	}
}

func (r *ModuleRequest) Normalized() GenerationRequest {
	n := *r
	n.CourseID = strings.TrimSpace(n.CourseID)
	n.ModuleTitle = strings.TrimSpace(n.ModuleTitle)
	n.ModuleSummary = strings.TrimSpace(n.ModuleSummary)
	n.KeyConcepts = trimList(n.KeyConcepts)
	return &n
}

func (r *ModuleRequest) ProjectContext(entity Entity) *ContextRecord {
	module, ok := entity.(*Module)
	if !ok {
		return nil
	}
	return &ContextRecord{
		Kind:       KindModule,
		EntityID:   module.ModuleID,
		ParentID:   r.CourseID,
		Title:      r.ModuleTitle,
		Summary:    r.ModuleSummary,
		Difficulty: string(r.DifficultyLevel),
		Style:      string(r.ContentStyle),
	}
}

// LessonRequest asks for the full content of one lesson.
type LessonRequest struct {
	ModuleID        string          `json:"module_id"`
	LessonTitle     string          `json:"lesson_title"`
	LessonObjective string          `json:"lesson_objective"`
	DifficultyLevel DifficultyLevel `json:"difficulty_level,omitempty"`
	ContentStyle    ContentStyle    `json:"content_style,omitempty"`
	FocusAreas      []string        `json:"focus_areas,omitempty"`
}

func (r *LessonRequest) Kind() EntityKind { return KindLesson }
func (r *LessonRequest) ParentID() string { return r.ModuleID }

func (r *LessonRequest) Hints() Hints {
	return Hints{
		Title:      r.LessonTitle,
		Summary:    r.LessonObjective,
		Difficulty: string(r.DifficultyLevel),
		Items:      r.FocusAreas,
		ParentID:   r.ModuleID,
	}
}

func (r *LessonRequest) Normalized() GenerationRequest {
	n := *r
	n.ModuleID = strings.TrimSpace(n.ModuleID)
	n.LessonTitle = strings.TrimSpace(n.LessonTitle)
	n.LessonObjective = strings.TrimSpace(n.LessonObjective)
	n.FocusAreas = trimList(n.FocusAreas)
	return &n
}

func (r *LessonRequest) ProjectContext(entity Entity) *ContextRecord {
	lesson, ok := entity.(*Lesson)
	if !ok {
		return nil
	}
	return &ContextRecord{
		Kind:       KindLesson,
		EntityID:   lesson.LessonID,
		ParentID:   r.ModuleID,
		Title:      r.LessonTitle,
		Summary:    r.LessonObjective,
		Difficulty: string(r.DifficultyLevel),
		Style:      string(r.ContentStyle),
	}
}

const (
	DefaultNumQuestions = 5
	MinNumQuestions     = 3
	MaxNumQuestions     = 10
	DefaultPassingScore = 80
)

// QuizRequest asks for an assessment of one lesson.
type QuizRequest struct {
	LessonID            string          `json:"lesson_id"`
	DifficultyLevel     DifficultyLevel `json:"difficulty_level,omitempty"`
	NumQuestions        int             `json:"num_questions,omitempty"`
	IncludeExplanations *bool           `json:"include_explanations,omitempty"`
}

func (r *QuizRequest) Kind() EntityKind { return KindQuiz }
func (r *QuizRequest) ParentID() string { return r.LessonID }

func (r *QuizRequest) Hints() Hints {
	return Hints{Difficulty: string(r.DifficultyLevel), ParentID: r.LessonID}
}

func (r *QuizRequest) Normalized() GenerationRequest {
	n := *r
	n.LessonID = strings.TrimSpace(n.LessonID)
	if n.DifficultyLevel == "" {
		n.DifficultyLevel = DifficultyIntermediate
	}
	if n.NumQuestions == 0 {
		n.NumQuestions = DefaultNumQuestions
	}
	if n.IncludeExplanations == nil {
		include := true
		n.IncludeExplanations = &include
	}
	return &n
}

func trimList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

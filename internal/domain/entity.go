package domain

import "time"

// Entity is a validated, identified generation result.
type Entity interface {
	EntityID() string
	Kind() EntityKind
}

type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
}

type ModuleInfo struct {
	ModuleID          string   `json:"module_id"`
	ModuleTitle       string   `json:"module_title"`
	ModuleSummary     string   `json:"module_summary"`
	EstimatedDuration string   `json:"estimated_duration"`
	KeyConcepts       []string `json:"key_concepts"`
}

type CourseMetadata struct {
	CreatedAt       time.Time `json:"created_at"`
	DifficultyLevel string    `json:"difficulty_level"`
	PreferredFormat string    `json:"preferred_format"`
	ContentStyle    string    `json:"content_style"`
}

// Course is the top of the hierarchy.
type Course struct {
	CourseID                  string          `json:"course_id"`
	CourseTitle               string          `json:"course_title"`
	CourseDescription         string          `json:"course_description"`
	CourseIntroduction        string          `json:"course_introduction"`
	LearningOutcomes          []string        `json:"learning_outcomes"`
	Prerequisites             []string        `json:"prerequisites"`
	TargetAudienceDescription string          `json:"target_audience_description"`
	EstimatedTotalDuration    string          `json:"estimated_total_duration"`
	Modules                   []ModuleInfo    `json:"modules"`
	RecommendedResources      []Resource      `json:"recommended_resources,omitempty"`
	Metadata                  *CourseMetadata `json:"metadata,omitempty"`
}

func (c *Course) EntityID() string { return c.CourseID }
func (c *Course) Kind() EntityKind { return KindCourse }

type LessonInfo struct {
	LessonID          string   `json:"lesson_id"`
	LessonTitle       string   `json:"lesson_title"`
	LessonObjective   string   `json:"lesson_objective"`
	EstimatedDuration string   `json:"estimated_duration"`
	KeyPoints         []string `json:"key_points"`
}

type Activity struct {
	ActivityID          string `json:"activity_id"`
	ActivityTitle       string `json:"activity_title"`
	ActivityType        string `json:"activity_type"`
	ActivityDescription string `json:"activity_description"`
	EstimatedDuration   string `json:"estimated_duration"`
}

// Module is the detailed plan of one course module.
type Module struct {
	ModuleID           string       `json:"module_id"`
	CourseID           string       `json:"course_id"`
	ModuleIntroduction string       `json:"module_introduction"`
	LearningPath       string       `json:"learning_path"`
	Lessons            []LessonInfo `json:"lessons"`
	Activities         []Activity   `json:"activities"`
	Resources          []Resource   `json:"resources"`
}

func (m *Module) EntityID() string { return m.ModuleID }
func (m *Module) Kind() EntityKind { return KindModule }

type Section struct {
	Heading    string `json:"heading"`
	Content    string `json:"content"`
	Importance int    `json:"importance"`
}

// Lesson holds the full teaching content of a lesson.
type Lesson struct {
	LessonID            string     `json:"lesson_id"`
	ModuleID            string     `json:"module_id"`
	LessonTitle         string     `json:"lesson_title"`
	Introduction        string     `json:"introduction"`
	Sections            []Section  `json:"sections"`
	Summary             string     `json:"summary"`
	ReflectionQuestions []string   `json:"reflection_questions"`
	NextSteps           string     `json:"next_steps"`
	Resources           []Resource `json:"resources"`
}

func (l *Lesson) EntityID() string { return l.LessonID }
func (l *Lesson) Kind() EntityKind { return KindLesson }

type Question struct {
	QuestionID    string   `json:"question_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

// Quiz is the assessment attached to a lesson.
type Quiz struct {
	QuizID           string     `json:"quiz_id"`
	LessonID         string     `json:"lesson_id"`
	QuizIntroduction string     `json:"quiz_introduction"`
	Questions        []Question `json:"questions"`
	PassingScore     int        `json:"passing_score"`
	DifficultyLevel  string     `json:"difficulty_level"`
}

func (q *Quiz) EntityID() string { return q.QuizID }
func (q *Quiz) Kind() EntityKind { return KindQuiz }

// NewEntity returns an empty entity of the given kind, or nil for an unknown kind.
func NewEntity(kind EntityKind) Entity {
	switch kind {
	case KindCourse:
		return &Course{}
	case KindModule:
		return &Module{}
	case KindLesson:
		return &Lesson{}
	case KindQuiz:
		return &Quiz{}
	default:
		return nil
	}
}

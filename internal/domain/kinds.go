package domain

// EntityKind names one level of the course hierarchy.
type EntityKind string

const (
	KindCourse EntityKind = "course"
	KindModule EntityKind = "module"
	KindLesson EntityKind = "lesson"
	KindQuiz   EntityKind = "quiz"
)

// Identifier prefixes for every entity that carries an id.
const (
	PrefixCourse   = "course"
	PrefixModule   = "mod"
	PrefixLesson   = "les"
	PrefixQuiz     = "quiz"
	PrefixActivity = "act"
	PrefixQuestion = "q"
)

// Parent returns the kind one level up, or "" for a course.
func (k EntityKind) Parent() EntityKind {
	switch k {
	case KindModule:
		return KindCourse
	case KindLesson:
		return KindModule
	case KindQuiz:
		return KindLesson
	default:
		return ""
	}
}

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
	DifficultyExpert       DifficultyLevel = "expert"
)

var DifficultyLevels = []string{"beginner", "intermediate", "advanced", "expert"}

type ContentFormat string

const (
	FormatTextHeavy   ContentFormat = "text-heavy"
	FormatVisual      ContentFormat = "visual"
	FormatInteractive ContentFormat = "interactive"
	FormatBalanced    ContentFormat = "balanced"
)

var ContentFormats = []string{"text-heavy", "visual", "interactive", "balanced"}

type ContentStyle string

const (
	StyleAcademic       ContentStyle = "academic"
	StyleConversational ContentStyle = "conversational"
	StyleTechnical      ContentStyle = "technical"
	StyleCreative       ContentStyle = "creative"
	StyleBusiness       ContentStyle = "business"
)

var ContentStyles = []string{"academic", "conversational", "technical", "creative", "business"}

type AssessmentType string

const (
	AssessmentQuiz       AssessmentType = "quiz"
	AssessmentCaseStudy  AssessmentType = "case_study"
	AssessmentProject    AssessmentType = "project"
	AssessmentReflection AssessmentType = "reflection"
	AssessmentMixed      AssessmentType = "mixed"
)

var AssessmentTypes = []string{"quiz", "case_study", "project", "reflection", "mixed"}

package validation

import (
	"slices"
	"strings"

	"tuteai/internal/domain"
)

// Validator checks inbound generation requests before they reach the pipeline.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Validate dispatches on the request kind. Unknown request types yield an
// UNKNOWN_ENTITY_KIND domain error rather than ValidationErrors.
func (v *Validator) Validate(req domain.GenerationRequest) error {
	var errs domain.ValidationErrors
	switch r := req.(type) {
	case *domain.CourseRequest:
		errs = v.ValidateCourseRequest(r)
	case *domain.ModuleRequest:
		errs = v.ValidateModuleRequest(r)
	case *domain.LessonRequest:
		errs = v.ValidateLessonRequest(r)
	case *domain.QuizRequest:
		errs = v.ValidateQuizRequest(r)
	default:
		if req == nil {
			return domain.NewInvalidInputError("request is required")
		}
		return domain.NewUnknownKindError(req.Kind())
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *Validator) ValidateCourseRequest(r *domain.CourseRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	errs = required(errs, "title", r.Title)
	errs = required(errs, "description", r.Description)
	errs = oneOf(errs, "preferred_format", string(r.PreferredFormat), domain.ContentFormats)
	errs = oneOf(errs, "difficulty_level", string(r.DifficultyLevel), domain.DifficultyLevels)
	errs = oneOf(errs, "content_style", string(r.ContentStyle), domain.ContentStyles)
	errs = oneOf(errs, "assessment_preference", string(r.AssessmentPreference), domain.AssessmentTypes)
	return errs
}

func (v *Validator) ValidateModuleRequest(r *domain.ModuleRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	errs = required(errs, "course_id", r.CourseID)
	errs = required(errs, "module_title", r.ModuleTitle)
	errs = required(errs, "module_summary", r.ModuleSummary)
	errs = oneOf(errs, "difficulty_level", string(r.DifficultyLevel), domain.DifficultyLevels)
	errs = oneOf(errs, "content_style", string(r.ContentStyle), domain.ContentStyles)
	return errs
}

func (v *Validator) ValidateLessonRequest(r *domain.LessonRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	errs = required(errs, "module_id", r.ModuleID)
	errs = required(errs, "lesson_title", r.LessonTitle)
	errs = required(errs, "lesson_objective", r.LessonObjective)
	errs = oneOf(errs, "difficulty_level", string(r.DifficultyLevel), domain.DifficultyLevels)
	errs = oneOf(errs, "content_style", string(r.ContentStyle), domain.ContentStyles)
	return errs
}

// ValidateQuizRequest treats num_questions == 0 as "use the default".
func (v *Validator) ValidateQuizRequest(r *domain.QuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	errs = required(errs, "lesson_id", r.LessonID)
	errs = oneOf(errs, "difficulty_level", string(r.DifficultyLevel), domain.DifficultyLevels)
	if r.NumQuestions != 0 && (r.NumQuestions < domain.MinNumQuestions || r.NumQuestions > domain.MaxNumQuestions) {
		errs = append(errs, domain.NewOutOfRangeError("num_questions", r.NumQuestions, domain.MinNumQuestions, domain.MaxNumQuestions))
	}
	return errs
}

func required(errs domain.ValidationErrors, field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return append(errs, domain.NewMissingFieldError(field))
	}
	return errs
}

// oneOf accepts the empty string so defaults can apply later.
func oneOf(errs domain.ValidationErrors, field, value string, allowed []string) domain.ValidationErrors {
	if value == "" || slices.Contains(allowed, value) {
		return errs
	}
	return append(errs, domain.NewInvalidEnumError(field, value, allowed))
}

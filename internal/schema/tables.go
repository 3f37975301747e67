package schema

import (
	"fmt"
	"strings"

	"tuteai/internal/domain"
)

var resourceSchema = &Schema{
	Name: "resource",
	Fields: []Field{
		{Name: "title", Type: String, Default: func(_ domain.Hints, i int) any { return fmt.Sprintf("Resource %d", i+1) }},
		{Name: "description", Type: String, Default: text("Additional learning resource")},
		{Name: "type", Type: String, Default: text("reference")},
		{Name: "url", Type: OptionalString},
	},
}

var moduleInfoSchema = &Schema{
	Name:     "module",
	IDField:  "module_id",
	IDPrefix: domain.PrefixModule,
	Fields: []Field{
		{Name: "module_title", Type: String, Default: func(_ domain.Hints, i int) any { return fmt.Sprintf("Module %d", i+1) }},
		{Name: "module_summary", Type: String, Default: text("Module details not provided.")},
		{Name: "estimated_duration", Type: String, Default: text("1-2 hours")},
		{Name: "key_concepts", Type: StringList, Default: list("Concept 1", "Concept 2")},
	},
}

var courseSchema = &Schema{
	Name:     "course",
	IDField:  "course_id",
	IDPrefix: domain.PrefixCourse,
	Fields: []Field{
		{Name: "course_title", Type: String, Default: func(h domain.Hints, _ int) any { return orElse(h.Title, "Course") }},
		{Name: "course_description", Type: String, Default: func(h domain.Hints, _ int) any {
			return orElse(h.Summary, "Course description not available")
		}},
		{Name: "course_introduction", Type: String, Default: func(h domain.Hints, _ int) any {
			return fmt.Sprintf("Welcome to %s.", orElse(h.Title, "this course"))
		}},
		{Name: "learning_outcomes", Type: StringList, Default: func(h domain.Hints, _ int) any {
			if len(h.Items) > 0 {
				return toAny(h.Items)
			}
			return []any{fmt.Sprintf("Understand the core concepts of %s", orElse(h.Title, "the subject"))}
		}},
		{Name: "prerequisites", Type: StringList, Default: list("No specific prerequisites")},
		{Name: "target_audience_description", Type: String, Default: func(h domain.Hints, _ int) any {
			return orElse(h.Audience, "Target audience not specified")
		}},
		{Name: "estimated_total_duration", Type: String, Default: text("Not specified")},
		{Name: "modules", Type: ObjectList, Item: moduleInfoSchema},
		{Name: "recommended_resources", Type: ObjectList, Item: resourceSchema},
	},
}

var lessonInfoSchema = &Schema{
	Name:     "lesson",
	IDField:  "lesson_id",
	IDPrefix: domain.PrefixLesson,
	Fields: []Field{
		{Name: "lesson_title", Type: String, Default: func(_ domain.Hints, i int) any { return fmt.Sprintf("Lesson %d", i+1) }},
		{Name: "lesson_objective", Type: String, Default: text("Learn key concepts in this lesson")},
		{Name: "estimated_duration", Type: String, Default: text("30-60 minutes")},
		{Name: "key_points", Type: StringList, Default: list("Key concept 1", "Key concept 2")},
	},
}

var activitySchema = &Schema{
	Name:     "activity",
	IDField:  "activity_id",
	IDPrefix: domain.PrefixActivity,
	Fields: []Field{
		{Name: "activity_title", Type: String, Default: func(_ domain.Hints, i int) any { return fmt.Sprintf("Activity %d", i+1) }},
		{Name: "activity_type", Type: String, Default: text("exercise")},
		{Name: "activity_description", Type: String, Default: text("Complete the activity to reinforce your learning")},
		{Name: "estimated_duration", Type: String, Default: text("15-30 minutes")},
	},
}

var moduleSchema = &Schema{
	Name:     "module",
	IDField:  "module_id",
	IDPrefix: domain.PrefixModule,
	Fields: []Field{
		{Name: "course_id", Type: String, Override: true, Default: func(h domain.Hints, _ int) any { return h.ParentID }},
		{Name: "module_introduction", Type: String, Default: func(h domain.Hints, _ int) any {
			return fmt.Sprintf("Introduction to %s.", orElse(h.Title, "this module"))
		}},
		{Name: "learning_path", Type: String, Default: text("Work through the lessons in order; each one builds on the previous.")},
		{Name: "lessons", Type: ObjectList, Item: lessonInfoSchema},
		{Name: "activities", Type: ObjectList, Item: activitySchema},
		{Name: "resources", Type: ObjectList, Item: resourceSchema},
	},
}

var sectionSchema = &Schema{
	Name: "section",
	Fields: []Field{
		{Name: "heading", Type: String, Default: func(_ domain.Hints, i int) any {
			if i == 0 {
				return "Main Content"
			}
			return fmt.Sprintf("Section %d", i+1)
		}},
		{Name: "content", Type: String, Default: text("Content not available.")},
		{Name: "importance", Type: Int, Min: 1, Max: 5, Default: number(1)},
	},
}

var lessonSchema = &Schema{
	Name:     "lesson",
	IDField:  "lesson_id",
	IDPrefix: domain.PrefixLesson,
	Fields: []Field{
		{Name: "module_id", Type: String, Override: true, Default: func(h domain.Hints, _ int) any { return h.ParentID }},
		{Name: "lesson_title", Type: String, Default: func(h domain.Hints, _ int) any { return orElse(h.Title, "Lesson") }},
		{Name: "introduction", Type: String, Default: func(h domain.Hints, _ int) any {
			return fmt.Sprintf("Introduction to %s.", orElse(h.Title, "this lesson"))
		}},
		{Name: "sections", Type: ObjectList, Item: sectionSchema},
		{Name: "summary", Type: String, Default: text("Summary of key points covered in this lesson.")},
		{Name: "reflection_questions", Type: StringList, Default: list("What did you learn from this lesson?")},
		{Name: "next_steps", Type: String, Default: text("Continue to the next lesson.")},
		{Name: "resources", Type: ObjectList, Item: resourceSchema},
	},
}

var defaultOptions = []string{"A. Option 1", "B. Option 2", "C. Option 3", "D. Option 4"}

var questionSchema = &Schema{
	Name:     "question",
	IDField:  "question_id",
	IDPrefix: domain.PrefixQuestion,
	Fields: []Field{
		{Name: "question", Type: String, Default: func(_ domain.Hints, i int) any { return fmt.Sprintf("Question %d?", i+1) }},
		{Name: "options", Type: StringList, MinItems: 2, Default: list(defaultOptions...)},
		{Name: "correct_answer", Type: String, Default: text(defaultOptions[0])},
		{Name: "explanation", Type: String, Default: text("Explanation not provided.")},
		{Name: "difficulty", Type: String, Allowed: []string{"easy", "medium", "hard"}, Default: text("medium")},
	},
	Fixup: fixCorrectAnswer,
}

var quizSchema = &Schema{
	Name:     "quiz",
	IDField:  "quiz_id",
	IDPrefix: domain.PrefixQuiz,
	Fields: []Field{
		{Name: "lesson_id", Type: String, Override: true, Default: func(h domain.Hints, _ int) any { return h.ParentID }},
		{Name: "quiz_introduction", Type: String, Default: func(h domain.Hints, _ int) any {
			return fmt.Sprintf("Test your knowledge of %s.", orElse(h.ParentTitle, "this lesson"))
		}},
		{Name: "questions", Type: ObjectList, Item: questionSchema},
		{Name: "passing_score", Type: Int, Min: 0, Max: 100, Default: number(domain.DefaultPassingScore)},
		{Name: "difficulty_level", Type: String, Override: true, Default: func(h domain.Hints, _ int) any {
			return orElse(h.Difficulty, string(domain.DifficultyIntermediate))
		}},
	},
}

// fixCorrectAnswer makes the declared answer one of the question's options.
// A bare letter such as "B" is resolved to the option it labels.
func fixCorrectAnswer(obj map[string]any) []string {
	options, _ := obj["options"].([]any)
	if len(options) == 0 {
		return nil
	}
	answer, _ := obj["correct_answer"].(string)
	for _, opt := range options {
		if opt == answer {
			return nil
		}
	}
	if len(answer) == 1 {
		label := strings.ToUpper(answer)
		for _, opt := range options {
			s, _ := opt.(string)
			if strings.HasPrefix(s, label+".") || strings.HasPrefix(s, label+")") {
				obj["correct_answer"] = s
				return []string{"correct_answer"}
			}
		}
	}
	obj["correct_answer"] = options[0]
	return []string{"correct_answer"}
}

var registry = map[domain.EntityKind]*Schema{
	domain.KindCourse: courseSchema,
	domain.KindModule: moduleSchema,
	domain.KindLesson: lessonSchema,
	domain.KindQuiz:   quizSchema,
}

// For returns the schema registered for kind.
func For(kind domain.EntityKind) (*Schema, bool) {
	s, ok := registry[kind]
	return s, ok
}

// Package prompt renders generation requests and their ancestor context into
// instruction strings for the generator.
package prompt

import (
	"fmt"
	"strings"

	"tuteai/internal/domain"
)

const notSpecified = "Not specified"

// Compiler builds prompts. It holds no state and is safe for concurrent use.
type Compiler struct{}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile renders req with the loaded ancestors. Missing ancestors are
// rendered from their fallback context.
func (c *Compiler) Compile(req domain.GenerationRequest, ancestry domain.Ancestry) (string, error) {
	var b strings.Builder
	switch r := req.(type) {
	case *domain.CourseRequest:
		c.course(&b, r)
	case *domain.ModuleRequest:
		c.module(&b, r, ancestry)
	case *domain.LessonRequest:
		c.lesson(&b, r, ancestry)
	case *domain.QuizRequest:
		c.quiz(&b, r, ancestry)
	default:
		kind := domain.EntityKind("")
		if req != nil {
			kind = req.Kind()
		}
		return "", domain.NewUnknownKindError(kind)
	}
	return b.String(), nil
}

func (c *Compiler) course(b *strings.Builder, r *domain.CourseRequest) {
	b.WriteString("As an expert curriculum designer with deep expertise in educational design and pedagogy, ")
	b.WriteString("create a comprehensive, well-structured course plan based on the following specifications.\n\n")

	section(b, "COURSE SPECIFICATIONS")
	field(b, "TITLE", r.Title)
	field(b, "DESCRIPTION", r.Description)
	field(b, "TARGET AUDIENCE", r.TargetAudience)
	field(b, "TIME AVAILABLE", r.TimeAvailable)
	field(b, "DIFFICULTY LEVEL", string(r.DifficultyLevel))
	field(b, "PREFERRED FORMAT", string(r.PreferredFormat))
	field(b, "CONTENT STYLE", string(r.ContentStyle))
	field(b, "INDUSTRY FOCUS", r.IndustryFocus)
	field(b, "ASSESSMENT PREFERENCE", string(r.AssessmentPreference))
	b.WriteString("\n")

	section(b, "LEARNING OBJECTIVES")
	bullets(b, r.LearningObjectives)
	section(b, "PREREQUISITES")
	bullets(b, r.Prerequisites)
	section(b, "SKILLS TO DEVELOP")
	bullets(b, r.SkillsToDevelop)

	section(b, "INSTRUCTIONS")
	steps(b,
		"Begin with a refined, captivating course title that accurately reflects the content",
		"Create an engaging course description (3-5 sentences)",
		"Write a course introduction (2 paragraphs) that establishes relevance and gives an overview",
		"List 4-7 clear, measurable learning outcomes that start with action verbs",
		"Develop a detailed target audience description",
		"Provide an accurate total time estimate for course completion",
		"Design 3-7 logical modules; for each give a title, a 2-3 sentence summary, an estimated duration and 3-5 key concepts",
	)
	example := fmt.Sprintf(courseExample, "")
	if r.WantsResources() {
		b.WriteString("Recommend 5-8 high-quality learning resources (books, articles, videos) that supplement the course.\n\n")
		example = fmt.Sprintf(courseExample, courseResourcesExample)
	}
	format(b, example)
}

func (c *Compiler) module(b *strings.Builder, r *domain.ModuleRequest, ancestry domain.Ancestry) {
	b.WriteString("As an expert instructional designer specializing in module development, ")
	b.WriteString("create a comprehensive, well-structured module plan based on the following specifications.\n\n")

	courseContext(b, ancestry, r.CourseID)

	section(b, "MODULE SPECIFICATIONS")
	field(b, "MODULE TITLE", r.ModuleTitle)
	field(b, "MODULE SUMMARY", r.ModuleSummary)
	field(b, "KEY CONCEPTS", strings.Join(r.KeyConcepts, ", "))
	field(b, "DIFFICULTY LEVEL", string(r.DifficultyLevel))
	field(b, "CONTENT STYLE", string(r.ContentStyle))
	b.WriteString("\n")

	section(b, "INSTRUCTIONS")
	steps(b,
		"Write a module introduction (1-2 paragraphs) that places this module within the larger course",
		"Describe the learning path: how the concepts build upon each other",
		"Design 3-5 lessons; for each give a title, a specific objective, an estimated duration and 3-5 key points",
		"Include 1-3 activities (discussion, exercise, project, reflection) with a title, type, description and duration",
		"Recommend 3-5 resources that specifically support this module",
	)
	format(b, moduleExample)
}

func (c *Compiler) lesson(b *strings.Builder, r *domain.LessonRequest, ancestry domain.Ancestry) {
	b.WriteString("As an expert educational content developer, ")
	b.WriteString("create a comprehensive lesson based on the following specifications.\n\n")

	if course := ancestry.Of(domain.KindCourse); course != nil {
		courseContext(b, ancestry, course.EntityID)
	}
	moduleContext(b, ancestry, r.ModuleID)

	section(b, "LESSON SPECIFICATIONS")
	field(b, "LESSON TITLE", r.LessonTitle)
	field(b, "LESSON OBJECTIVE", r.LessonObjective)
	field(b, "DIFFICULTY LEVEL", string(r.DifficultyLevel))
	field(b, "CONTENT STYLE", string(r.ContentStyle))
	field(b, "FOCUS AREAS", strings.Join(r.FocusAreas, ", "))
	b.WriteString("\n")

	section(b, "INSTRUCTIONS")
	steps(b,
		"Write an engaging introduction (1-2 paragraphs) that states what will be learned",
		"Write 4-6 content sections, each with a heading, 200-400 words of explanation with examples, and an importance from 1 to 5",
		"Write a one paragraph summary that reinforces the key takeaways",
		"Ask 3-5 reflection questions that promote critical thinking",
		"Give next steps guidance on how to apply or extend the learning",
		"Recommend 2-4 resources for further exploration",
	)
	format(b, fmt.Sprintf(lessonExample, orNotSpecified(r.LessonTitle)))
}

func (c *Compiler) quiz(b *strings.Builder, r *domain.QuizRequest, ancestry domain.Ancestry) {
	b.WriteString("As an expert assessment designer, ")
	b.WriteString("create a quiz based on the following specifications.\n\n")

	if course := ancestry.Of(domain.KindCourse); course != nil {
		courseContext(b, ancestry, course.EntityID)
	}
	if module := ancestry.Of(domain.KindModule); module != nil {
		moduleContext(b, ancestry, module.EntityID)
	}
	lesson := ancestry.Of(domain.KindLesson)
	if lesson == nil {
		lesson = domain.FallbackContext(domain.KindLesson, r.LessonID)
	}
	section(b, "LESSON CONTEXT")
	field(b, "LESSON TITLE", lesson.Title)
	field(b, "LESSON OBJECTIVE", lesson.Summary)
	b.WriteString("\n")

	explanations := r.IncludeExplanations == nil || *r.IncludeExplanations
	section(b, "QUIZ SPECIFICATIONS")
	field(b, "DIFFICULTY LEVEL", string(r.DifficultyLevel))
	field(b, "NUMBER OF QUESTIONS", fmt.Sprint(r.NumQuestions))
	field(b, "INCLUDE EXPLANATIONS", fmt.Sprint(explanations))
	b.WriteString("\n")

	section(b, "INSTRUCTIONS")
	steps(b,
		"Write a brief quiz introduction that explains the purpose and gives instructions",
		fmt.Sprintf("Write %d questions aligned with the lesson objective, increasing in complexity", r.NumQuestions),
		"Give each question 4 options labeled A, B, C, D with exactly one correct answer",
		"The correct_answer must be copied verbatim from the options",
		"Rate each question easy, medium or hard and explain why the answer is correct",
		"Set a passing score between 0 and 100 appropriate to the difficulty",
	)
	format(b, fmt.Sprintf(quizExample, orNotSpecified(string(r.DifficultyLevel))))
}

func courseContext(b *strings.Builder, ancestry domain.Ancestry, courseID string) {
	rec := ancestry.Of(domain.KindCourse)
	if rec == nil {
		rec = domain.FallbackContext(domain.KindCourse, courseID)
	}
	section(b, "COURSE CONTEXT")
	field(b, "COURSE TITLE", rec.Title)
	field(b, "COURSE DESCRIPTION", rec.Summary)
	field(b, "TARGET AUDIENCE", rec.Audience)
	b.WriteString("\n")
}

func moduleContext(b *strings.Builder, ancestry domain.Ancestry, moduleID string) {
	rec := ancestry.Of(domain.KindModule)
	if rec == nil {
		rec = domain.FallbackContext(domain.KindModule, moduleID)
	}
	section(b, "MODULE CONTEXT")
	field(b, "MODULE TITLE", rec.Title)
	field(b, "MODULE SUMMARY", rec.Summary)
	b.WriteString("\n")
}

func section(b *strings.Builder, title string) {
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n")
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s: %s\n", label, orNotSpecified(value))
}

func bullets(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString(notSpecified)
		b.WriteString("\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func steps(b *strings.Builder, items ...string) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n")
}

func format(b *strings.Builder, example string) {
	b.WriteString("Format the response as a single JSON object with EXACTLY this structure:\n")
	b.WriteString("```json\n")
	b.WriteString(example)
	b.WriteString("\n```\n\n")
	b.WriteString("IMPORTANT: Follow the EXACT format above with all required fields. ")
	b.WriteString("Do not add commentary outside the JSON object.\n")
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

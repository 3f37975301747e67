package prompt

const courseExample = `{
  "course_title": "The title of the course",
  "course_description": "A comprehensive description of the course",
  "course_introduction": "An introduction to the course that spans multiple paragraphs",
  "learning_outcomes": [
    "Outcome 1: Learn something important",
    "Outcome 2: Master a specific skill",
    "Outcome 3: Apply knowledge in real-world contexts"
  ],
  "prerequisites": ["Prerequisite 1", "Prerequisite 2"],
  "target_audience_description": "Detailed description of target audience",
  "estimated_total_duration": "X weeks, Y hours per week",
  "modules": [
    {
      "module_title": "Title of Module 1",
      "module_summary": "Summary of what module 1 covers",
      "estimated_duration": "X hours",
      "key_concepts": ["Concept 1", "Concept 2", "Concept 3"]
    }
  ]%s
}`

const courseResourcesExample = `,
  "recommended_resources": [
    {
      "title": "Resource Title",
      "description": "Brief description of the resource",
      "type": "book/article/video/website",
      "url": "https://example.com/resource"
    }
  ]`

const moduleExample = `{
  "module_introduction": "A compelling introduction to the module...",
  "learning_path": "Description of how the concepts build upon each other...",
  "lessons": [
    {
      "lesson_title": "Title of Lesson 1",
      "lesson_objective": "Specific objective for lesson 1",
      "estimated_duration": "30-45 minutes",
      "key_points": ["Key point 1", "Key point 2", "Key point 3"]
    }
  ],
  "activities": [
    {
      "activity_title": "Title of Activity 1",
      "activity_type": "exercise",
      "activity_description": "Description of the activity",
      "estimated_duration": "20 minutes"
    }
  ],
  "resources": [
    {
      "title": "Resource Title",
      "description": "Description of the resource",
      "type": "book/article/video",
      "url": "https://example.com/resource"
    }
  ]
}`

const lessonExample = `{
  "lesson_title": %q,
  "introduction": "An engaging introduction to the lesson...",
  "sections": [
    {
      "heading": "First Section Heading",
      "content": "Detailed content for the first section...",
      "importance": 2
    }
  ],
  "summary": "A concise summary of the lesson...",
  "reflection_questions": ["First reflection question?", "Second reflection question?"],
  "next_steps": "Guidance on how to apply or extend the learning...",
  "resources": [
    {
      "title": "Resource Title",
      "description": "Description of the resource",
      "type": "book/article/video",
      "url": "https://example.com/resource"
    }
  ]
}`

const quizExample = `{
  "quiz_introduction": "A brief introduction to the quiz...",
  "questions": [
    {
      "question": "First question text?",
      "options": ["A. First option", "B. Second option", "C. Third option", "D. Fourth option"],
      "correct_answer": "B. Second option",
      "explanation": "Explanation of why B is correct...",
      "difficulty": "medium"
    }
  ],
  "passing_score": 80,
  "difficulty_level": %q
}`

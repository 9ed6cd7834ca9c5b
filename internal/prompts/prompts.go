package prompts

import (
	"fmt"
	"strings"

	"coursegen/internal/services"
)

const (
	// MaxQuizQuestions bounds a single additional-quiz request.
	MaxQuizQuestions = 20
	// MaxSourceRunes bounds how much source material is pasted into a prompt.
	MaxSourceRunes = 24000

	component = "prompts"
)

// Categories and Levels are the values the course prompt asks the model to pick from.
var (
	Categories = []string{"Programming", "Science", "Mathematics", "Business", "Language", "Arts", "History", "Health", "Other"}
	Levels     = []string{"Beginner", "Intermediate", "Advanced"}
)

// Prompt is the instruction text for one completion and whether the reply must be JSON.
type Prompt struct {
	Text string
	JSON bool
}

// NoteInput feeds ComprehensiveNote.
type NoteInput struct {
	CourseTitle   string
	SectionTitle  string
	Summary       string
	CourseContext string
}

// CourseInput feeds CourseContent. SourceType describes where SourceText came
// from, for example "pdf", "youtube transcript" or "text".
type CourseInput struct {
	Title      string
	SourceType string
	SourceText string
}

// CourseSummary is the slice of an enrolled course the chat prompt may reference.
type CourseSummary struct {
	Title    string
	Summary  string
	Progress int
}

// ChatInput feeds ChatResponse.
type ChatInput struct {
	Message string
	Courses []CourseSummary
}

// QuizInput feeds AdditionalQuiz.
type QuizInput struct {
	CourseTitle string
	Topic       string
	Count       int
}

const noteInstructions = `You are an expert teacher writing study notes for a learner.

Write comprehensive, well-structured notes for the section below. Explain every key idea in plain language, add a short worked example where it helps, and finish with a bullet list of the most important takeaways.

Use Markdown headings and bullet points. Do not wrap the answer in a code block.`

const courseInstructions = `You are an instructional designer turning source material into a complete self-study course.

Respond ONLY with a JSON object using exactly this shape:
{
  "summary": "2-3 sentence overview of the course",
  "category": "one of: %s",
  "level": "one of: %s",
  "topics": ["short topic", "..."],
  "lessons": [{"title": "lesson title", "content": "lesson body in Markdown", "duration_minutes": 10}],
  "quiz": [{"question": "question text", "options": ["A", "B", "C", "D"], "correct_answer": 0, "explanation": "why the answer is correct"}],
  "flashcards": [{"front": "term or question", "back": "definition or answer"}],
  "notes": [{"title": "note title", "content": "concise study note"}]
}

Rules:

- Produce 3 to 8 lessons that follow the order of the source material.
- Produce 5 to 10 quiz questions with exactly four options each. "correct_answer" is the zero-based index of the correct option; vary its position across questions.
- Produce 8 to 15 flashcards and 3 to 6 notes.
- Base everything on the source material. Do not invent facts that are not supported by it.`

const chatInstructions = `You are a friendly study assistant inside a learning app.

Answer the learner's message in 2 to 4 sentences. Be accurate, encouraging and concrete. When the question relates to one of the learner's courses, connect the answer to that course. Do not use headings or lists.`

const quizInstructions = `You are writing extra multiple-choice practice questions for a course.

Respond ONLY with a JSON object using exactly this shape:
{"questions": [{"question": "question text", "options": ["A", "B", "C", "D"], "correct_answer": 0, "explanation": "why the answer is correct"}]}

Rules:

- Write exactly %d new questions.
- Each question has exactly four options and one correct answer.
- Randomize the position of the correct answer across the options so it is not always in the same place. "correct_answer" is its zero-based index.
- Keep questions varied: mix recall, understanding and application.`

// ComprehensiveNote builds the free-text prompt for detailed section notes.
func ComprehensiveNote(in NoteInput) (Prompt, error) {
	section := strings.TrimSpace(in.SectionTitle)
	if section == "" {
		return Prompt{}, invalid("comprehensive note", "section title required")
	}
	var b strings.Builder
	b.WriteString(noteInstructions)
	b.WriteString("\n\n")
	writeField(&b, "Course", in.CourseTitle)
	writeField(&b, "Section", section)
	writeField(&b, "Section summary", in.Summary)
	writeBlock(&b, "Course context", in.CourseContext)
	return Prompt{Text: strings.TrimSpace(b.String())}, nil
}

// CourseContent builds the JSON prompt that turns source material into a full course.
func CourseContent(in CourseInput) (Prompt, error) {
	title := strings.TrimSpace(in.Title)
	source := strings.TrimSpace(in.SourceText)
	if title == "" && source == "" {
		return Prompt{}, invalid("course content", "title or source text required")
	}
	sourceType := strings.TrimSpace(in.SourceType)
	if sourceType == "" {
		sourceType = "text"
	}
	var b strings.Builder
	fmt.Fprintf(&b, courseInstructions, strings.Join(Categories, ", "), strings.Join(Levels, ", "))
	b.WriteString("\n\n")
	writeField(&b, "Course title", title)
	writeField(&b, "Source type", sourceType)
	writeBlock(&b, "Source material", truncateRunes(source, MaxSourceRunes))
	return Prompt{Text: strings.TrimSpace(b.String()), JSON: true}, nil
}

// ChatResponse builds the short free-text prompt for the study assistant.
func ChatResponse(in ChatInput) (Prompt, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return Prompt{}, invalid("chat response", "message required")
	}
	var b strings.Builder
	b.WriteString(chatInstructions)
	b.WriteString("\n\n")
	if len(in.Courses) == 0 {
		b.WriteString("The learner is not enrolled in any courses yet.\n\n")
	} else {
		b.WriteString("The learner is enrolled in:\n")
		for _, course := range in.Courses {
			title := strings.TrimSpace(course.Title)
			if title == "" {
				continue
			}
			fmt.Fprintf(&b, "- %s (%d%% complete)", title, clampPercent(course.Progress))
			if summary := strings.TrimSpace(course.Summary); summary != "" {
				b.WriteString(": ")
				b.WriteString(summary)
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	writeBlock(&b, "Learner message", message)
	return Prompt{Text: strings.TrimSpace(b.String())}, nil
}

// AdditionalQuiz builds the JSON prompt for extra practice questions.
func AdditionalQuiz(in QuizInput) (Prompt, error) {
	if in.Count < 1 || in.Count > MaxQuizQuestions {
		return Prompt{}, invalid("additional quiz", fmt.Sprintf("count must be between 1 and %d, got %d", MaxQuizQuestions, in.Count))
	}
	title := strings.TrimSpace(in.CourseTitle)
	topic := strings.TrimSpace(in.Topic)
	if title == "" && topic == "" {
		return Prompt{}, invalid("additional quiz", "course title or topic required")
	}
	var b strings.Builder
	fmt.Fprintf(&b, quizInstructions, in.Count)
	b.WriteString("\n\n")
	writeField(&b, "Course", title)
	writeField(&b, "Topic", topic)
	return Prompt{Text: strings.TrimSpace(b.String()), JSON: true}, nil
}

func writeField(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func writeBlock(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(label)
	b.WriteString(":\n\"\"\"\n")
	b.WriteString(value)
	b.WriteString("\n\"\"\"\n")
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "\n[truncated]"
}

func clampPercent(value int) int {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}

func invalid(operation, message string) error {
	return services.Wrap(services.ErrValidation, component, operation, message, nil)
}

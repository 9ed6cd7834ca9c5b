package prompts

import (
	"errors"
	"strings"
	"testing"

	"coursegen/internal/services"
)

func TestComprehensiveNote(t *testing.T) {
	p, err := ComprehensiveNote(NoteInput{
		CourseTitle:   "Intro to Go",
		SectionTitle:  "Goroutines",
		Summary:       "Lightweight threads managed by the runtime.",
		CourseContext: "Covers concurrency basics.",
	})
	if err != nil {
		t.Fatalf("ComprehensiveNote returned error: %v", err)
	}
	if p.JSON {
		t.Fatal("expected free-text prompt")
	}
	for _, want := range []string{"Course: Intro to Go", "Section: Goroutines", "Lightweight threads", "Covers concurrency basics."} {
		if !strings.Contains(p.Text, want) {
			t.Fatalf("expected prompt to contain %q, got %q", want, p.Text)
		}
	}
}

func TestComprehensiveNoteRequiresSection(t *testing.T) {
	if _, err := ComprehensiveNote(NoteInput{CourseTitle: "Go"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCourseContent(t *testing.T) {
	p, err := CourseContent(CourseInput{Title: "Photosynthesis", SourceText: "Plants convert light."})
	if err != nil {
		t.Fatalf("CourseContent returned error: %v", err)
	}
	if !p.JSON {
		t.Fatal("expected JSON prompt")
	}
	for _, key := range []string{`"summary"`, `"category"`, `"level"`, `"topics"`, `"lessons"`, `"quiz"`, `"flashcards"`, `"notes"`} {
		if !strings.Contains(p.Text, key) {
			t.Fatalf("expected prompt to describe %s", key)
		}
	}
	if !strings.Contains(p.Text, "Source type: text") {
		t.Fatalf("expected default source type, got %q", p.Text)
	}
	if !strings.Contains(p.Text, "Beginner, Intermediate, Advanced") {
		t.Fatalf("expected level choices in prompt")
	}
}

func TestCourseContentTruncatesSource(t *testing.T) {
	long := strings.Repeat("a", MaxSourceRunes+50)
	p, err := CourseContent(CourseInput{Title: "Long", SourceType: "pdf", SourceText: long})
	if err != nil {
		t.Fatalf("CourseContent returned error: %v", err)
	}
	if strings.Contains(p.Text, long) {
		t.Fatal("expected source text to be truncated")
	}
	if !strings.Contains(p.Text, "[truncated]") {
		t.Fatal("expected truncation marker")
	}
}

func TestCourseContentRequiresInput(t *testing.T) {
	if _, err := CourseContent(CourseInput{SourceType: "pdf"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChatResponse(t *testing.T) {
	p, err := ChatResponse(ChatInput{
		Message: "How do I start?",
		Courses: []CourseSummary{
			{Title: "Algebra", Summary: "Equations and functions", Progress: 40},
			{Title: "   "},
			{Title: "Biology", Progress: 150},
		},
	})
	if err != nil {
		t.Fatalf("ChatResponse returned error: %v", err)
	}
	if p.JSON {
		t.Fatal("expected free-text prompt")
	}
	if !strings.Contains(p.Text, "2 to 4 sentences") {
		t.Fatal("expected sentence constraint")
	}
	if !strings.Contains(p.Text, "- Algebra (40% complete): Equations and functions") {
		t.Fatalf("expected course line, got %q", p.Text)
	}
	if !strings.Contains(p.Text, "- Biology (100% complete)") {
		t.Fatalf("expected clamped progress, got %q", p.Text)
	}
	if !strings.Contains(p.Text, "How do I start?") {
		t.Fatal("expected learner message")
	}
}

func TestChatResponseWithoutCourses(t *testing.T) {
	p, err := ChatResponse(ChatInput{Message: "What is recursion?"})
	if err != nil {
		t.Fatalf("ChatResponse returned error: %v", err)
	}
	if !strings.Contains(p.Text, "not enrolled in any courses") {
		t.Fatalf("expected no-course note, got %q", p.Text)
	}
}

func TestChatResponseRequiresMessage(t *testing.T) {
	if _, err := ChatResponse(ChatInput{Message: " \n"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdditionalQuiz(t *testing.T) {
	p, err := AdditionalQuiz(QuizInput{CourseTitle: "Chemistry", Topic: "Bonds", Count: 5})
	if err != nil {
		t.Fatalf("AdditionalQuiz returned error: %v", err)
	}
	if !p.JSON {
		t.Fatal("expected JSON prompt")
	}
	if !strings.Contains(p.Text, "exactly 5 new questions") {
		t.Fatalf("expected requested count, got %q", p.Text)
	}
	if !strings.Contains(p.Text, "Randomize the position of the correct answer") {
		t.Fatal("expected randomization instruction")
	}
	if !strings.Contains(p.Text, `"questions"`) {
		t.Fatal("expected questions array in shape")
	}
}

func TestAdditionalQuizCountBounds(t *testing.T) {
	for _, count := range []int{0, -1, MaxQuizQuestions + 1} {
		if _, err := AdditionalQuiz(QuizInput{CourseTitle: "Chemistry", Count: count}); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation error for count %d, got %v", count, err)
		}
	}
}

package generate

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"coursegen/internal/prompts"
)

// CourseSummary describes an enrolled course for chat context.
type CourseSummary = prompts.CourseSummary

// CourseContent is the full generated course.
type CourseContent struct {
	Summary    string         `json:"summary"`
	Category   string         `json:"category"`
	Level      string         `json:"level"`
	Topics     []string       `json:"topics"`
	Lessons    []Lesson       `json:"lessons"`
	Quiz       []QuizQuestion `json:"quiz"`
	Flashcards []Flashcard    `json:"flashcards"`
	Notes      []Note         `json:"notes"`
}

// Lesson is one unit of course material.
type Lesson struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	DurationMinutes int    `json:"duration_minutes"`
}

// QuizQuestion is a multiple-choice question. CorrectAnswer is a zero-based
// index into Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Flashcard is a front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Note is a short study note.
type Note struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// QuizExtension is the reply shape for additional quiz questions.
type QuizExtension struct {
	Questions []QuizQuestion `json:"questions"`
}

// UnmarshalJSON accepts correct_answer as an index, a numeric string, a letter
// ("B") or the text of the correct option. Unresolvable values become -1 and
// are dropped during normalization.
func (q *QuizQuestion) UnmarshalJSON(data []byte) error {
	var raw struct {
		Question      string          `json:"question"`
		Options       []string        `json:"options"`
		CorrectAnswer json.RawMessage `json:"correct_answer"`
		Explanation   string          `json:"explanation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.Question = raw.Question
	q.Options = raw.Options
	q.Explanation = raw.Explanation
	q.CorrectAnswer = resolveAnswer(raw.CorrectAnswer, raw.Options)
	return nil
}

func resolveAnswer(raw json.RawMessage, options []string) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return -1
	}
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return int(number)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return -1
	}
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if len(text) == 1 {
		letter := strings.ToUpper(text)[0]
		if letter >= 'A' && letter <= 'Z' {
			return int(letter - 'A')
		}
	}
	for i, option := range options {
		if strings.EqualFold(strings.TrimSpace(option), text) {
			return i
		}
	}
	return -1
}

package generate

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"coursegen/internal/prompts"
)

const wordsPerMinute = 200

var titleCaser = cases.Title(language.English)

func normalizeCourse(c CourseContent) CourseContent {
	c.Summary = strings.TrimSpace(c.Summary)
	c.Category = canonicalChoice(c.Category, prompts.Categories, "Other")
	c.Level = canonicalChoice(c.Level, prompts.Levels, "Beginner")
	c.Topics = normalizeTopics(c.Topics)

	lessons := make([]Lesson, 0, len(c.Lessons))
	for _, lesson := range c.Lessons {
		lesson.Title = strings.TrimSpace(lesson.Title)
		lesson.Content = strings.TrimSpace(lesson.Content)
		if lesson.Title == "" && lesson.Content == "" {
			continue
		}
		if lesson.DurationMinutes <= 0 {
			lesson.DurationMinutes = estimateMinutes(lesson.Content)
		}
		lessons = append(lessons, lesson)
	}
	c.Lessons = lessons
	c.Quiz = normalizeQuestions(c.Quiz)

	cards := make([]Flashcard, 0, len(c.Flashcards))
	for _, card := range c.Flashcards {
		card.Front = strings.TrimSpace(card.Front)
		card.Back = strings.TrimSpace(card.Back)
		if card.Front == "" || card.Back == "" {
			continue
		}
		cards = append(cards, card)
	}
	c.Flashcards = cards

	notes := make([]Note, 0, len(c.Notes))
	for _, note := range c.Notes {
		note.Title = strings.TrimSpace(note.Title)
		note.Content = strings.TrimSpace(note.Content)
		if note.Content == "" {
			continue
		}
		notes = append(notes, note)
	}
	c.Notes = notes
	return c
}

// normalizeQuestions trims text and removes blank options, keeping the correct
// answer pointed at the same option. Questions with fewer than two options, or
// whose answer is out of range or blank, are dropped.
func normalizeQuestions(in []QuizQuestion) []QuizQuestion {
	out := make([]QuizQuestion, 0, len(in))
	for _, q := range in {
		q.Question = strings.TrimSpace(q.Question)
		q.Explanation = strings.TrimSpace(q.Explanation)
		if q.Question == "" || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			continue
		}
		answer := -1
		options := make([]string, 0, len(q.Options))
		for i, option := range q.Options {
			option = strings.TrimSpace(option)
			if option == "" {
				continue
			}
			if i == q.CorrectAnswer {
				answer = len(options)
			}
			options = append(options, option)
		}
		if len(options) < 2 || answer < 0 {
			continue
		}
		q.Options = options
		q.CorrectAnswer = answer
		out = append(out, q)
	}
	return out
}

func normalizeTopics(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, topic := range in {
		topic = strings.TrimSpace(topic)
		key := strings.ToLower(topic)
		if topic == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, topic)
	}
	return out
}

// canonicalChoice maps value onto one of choices case-insensitively. Unknown
// values are title-cased and kept; blank values use fallback.
func canonicalChoice(value string, choices []string, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	for _, choice := range choices {
		if strings.EqualFold(choice, value) {
			return choice
		}
	}
	return titleCaser.String(value)
}

func estimateMinutes(content string) int {
	if !utf8.ValidString(content) {
		return 1
	}
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"coursegen/internal/generate"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// headingStyle returns a bold heading painter when w is a terminal.
func headingStyle(w io.Writer) func(a ...any) string {
	c := color.New(color.Bold, color.FgCyan)
	if isTerminal(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func writeSection(w io.Writer, title, body string) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Section"
	}
	paint := headingStyle(w)
	_, _ = fmt.Fprintln(w, paint(title))
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)))
	body = strings.TrimSpace(body)
	if body == "" {
		body = "(empty)"
	}
	_, _ = fmt.Fprintln(w, body)
	_, _ = fmt.Fprintln(w)
}

func optionLetter(index int) string {
	if index < 0 || index >= 26 {
		return strconv.Itoa(index)
	}
	return string(rune('A' + index))
}

func quizRows(questions []generate.QuizQuestion) [][]string {
	rows := make([][]string, 0, len(questions))
	for i, q := range questions {
		options := make([]string, 0, len(q.Options))
		for j, option := range q.Options {
			options = append(options, optionLetter(j)+") "+option)
		}
		answer := ""
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			answer = optionLetter(q.CorrectAnswer)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			q.Question,
			strings.Join(options, "\n"),
			answer,
		})
	}
	return rows
}

func renderQuiz(questions []generate.QuizQuestion) string {
	return renderTable([]column{
		{title: "#", numeric: true},
		{title: "Question", width: 48},
		{title: "Options", width: 40},
		{title: "Answer"},
	}, quizRows(questions))
}

func renderCourse(w io.Writer, course generate.CourseContent) {
	writeSection(w, "Summary", course.Summary)
	writeSection(w, "Details", fmt.Sprintf("Category: %s\nLevel: %s\nTopics: %s",
		course.Category, course.Level, strings.Join(course.Topics, ", ")))

	lessonRows := make([][]string, 0, len(course.Lessons))
	total := 0
	for i, lesson := range course.Lessons {
		total += lesson.DurationMinutes
		lessonRows = append(lessonRows, []string{strconv.Itoa(i + 1), lesson.Title, strconv.Itoa(lesson.DurationMinutes)})
	}
	writeSection(w, fmt.Sprintf("Lessons (%d min)", total), renderTable([]column{
		{title: "#", numeric: true},
		{title: "Lesson"},
		{title: "Minutes", numeric: true},
	}, lessonRows))
	writeSection(w, "Quiz", renderQuiz(course.Quiz))

	cardRows := make([][]string, 0, len(course.Flashcards))
	for _, card := range course.Flashcards {
		cardRows = append(cardRows, []string{card.Front, card.Back})
	}
	writeSection(w, "Flashcards", renderTable([]column{{title: "Front", width: 36}, {title: "Back"}}, cardRows))

	for _, note := range course.Notes {
		writeSection(w, "Note: "+note.Title, note.Content)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coursegen/internal/generate"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	var courseTitles []string
	var coursesFile string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the study assistant a question",
		Long: `Ask the study assistant a question. Enrolled courses can be passed with
repeated --course flags or as a JSON array of {"title","summary","progress"}
objects via --courses-file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := loadCourses(coursesFile, courseTitles)
			if err != nil {
				return err
			}
			gen, err := ctx.generator()
			if err != nil {
				return err
			}
			message := strings.Join(args, " ")
			reply, err := gen.GenerateChatResponse(cmd.Context(), message, courses)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"message": message, "reply": reply})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&courseTitles, "course", nil, "Enrolled course title (repeatable)")
	cmd.Flags().StringVar(&coursesFile, "courses-file", "", "JSON file describing enrolled courses")
	return cmd
}

func loadCourses(path string, titles []string) ([]generate.CourseSummary, error) {
	var courses []generate.CourseSummary
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read courses file: %w", err)
		}
		var raw []struct {
			Title    string `json:"title"`
			Summary  string `json:"summary"`
			Progress int    `json:"progress"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse courses file: %w", err)
		}
		for _, c := range raw {
			courses = append(courses, generate.CourseSummary{Title: c.Title, Summary: c.Summary, Progress: c.Progress})
		}
	}
	for _, title := range titles {
		if title = strings.TrimSpace(title); title != "" {
			courses = append(courses, generate.CourseSummary{Title: title})
		}
	}
	return courses, nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursegen/internal/prompts"
)

func newQuizCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz utilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newQuizExtendCommand(ctx))
	return cmd
}

func newQuizExtendCommand(ctx *commandContext) *cobra.Command {
	in := prompts.QuizInput{Count: 5}

	cmd := &cobra.Command{
		Use:   "extend",
		Short: "Generate additional multiple-choice questions for a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := ctx.generator()
			if err != nil {
				return err
			}
			questions, err := gen.GenerateAdditionalQuizQuestions(cmd.Context(), in)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"questions": questions})
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, renderQuiz(questions))
			for i, q := range questions {
				if q.Explanation != "" {
					_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, q.Explanation)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.CourseTitle, "course", "", "Course title")
	cmd.Flags().StringVar(&in.Topic, "topic", "", "Topic to focus the questions on")
	cmd.Flags().IntVarP(&in.Count, "count", "n", in.Count, fmt.Sprintf("Number of questions (1-%d)", prompts.MaxQuizQuestions))
	return cmd
}

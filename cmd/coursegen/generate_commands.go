package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coursegen/internal/prompts"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate course material",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newGenerateCourseCommand(ctx))
	cmd.AddCommand(newGenerateNoteCommand(ctx))
	return cmd
}

func newGenerateCourseCommand(ctx *commandContext) *cobra.Command {
	var title, sourceType, sourcePath string

	cmd := &cobra.Command{
		Use:   "course",
		Short: "Generate a full course from source material",
		Long: `Generate a course (summary, lessons, quiz, flashcards and notes) from
source material. The material is read from --file, or from stdin when --file
is "-".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, sourcePath)
			if err != nil {
				return err
			}
			gen, err := ctx.generator()
			if err != nil {
				return err
			}
			course, err := gen.GenerateCourseContent(cmd.Context(), prompts.CourseInput{
				Title:      title,
				SourceType: sourceType,
				SourceText: source,
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, course)
			}
			renderCourse(cmd.OutOrStdout(), course)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Course title")
	cmd.Flags().StringVar(&sourceType, "source-type", "text", "Kind of source material (text, pdf, youtube transcript, ...)")
	cmd.Flags().StringVarP(&sourcePath, "file", "f", "", "Source material file, or - for stdin")
	return cmd
}

func newGenerateNoteCommand(ctx *commandContext) *cobra.Command {
	var in prompts.NoteInput

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Generate comprehensive notes for a course section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := ctx.generator()
			if err != nil {
				return err
			}
			note, err := gen.GenerateComprehensiveNote(cmd.Context(), in)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"section": in.SectionTitle, "note": note})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), note)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.CourseTitle, "course", "", "Course title")
	cmd.Flags().StringVar(&in.SectionTitle, "section", "", "Section title")
	cmd.Flags().StringVar(&in.Summary, "summary", "", "Section summary")
	cmd.Flags().StringVar(&in.CourseContext, "context", "", "Additional course context")
	_ = cmd.MarkFlagRequired("section")
	return cmd
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	path = strings.TrimSpace(path)
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read source from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read source file: %w", err)
		}
		return string(data), nil
	}
}

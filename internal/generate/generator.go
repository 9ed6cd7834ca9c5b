package generate

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"coursegen/internal/logging"
	"coursegen/internal/prompts"
	"coursegen/internal/services"
	"coursegen/internal/services/llm"
)

const component = "generate"

// Completer is the part of the completion client the generator needs.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, req llm.Request) (string, error)
	CompleteJSON(ctx context.Context, prompt string, target any) error
}

// Generator turns typed requests into prompts, sends them, and returns typed results.
type Generator struct {
	client Completer
	logger *slog.Logger
}

// New constructs a Generator. A nil or unconfigured client leaves generation disabled.
func New(client Completer, logger *slog.Logger) *Generator {
	return &Generator{
		client: client,
		logger: logging.NewComponentLogger(logger, component),
	}
}

// Enabled reports whether an API key is configured.
func (g *Generator) Enabled() bool {
	return g != nil && g.client != nil && g.client.Configured()
}

// GenerateComprehensiveNote returns detailed study notes for one course section.
func (g *Generator) GenerateComprehensiveNote(ctx context.Context, in prompts.NoteInput) (string, error) {
	ctx, err := g.begin(ctx, "comprehensive_note")
	if err != nil {
		return "", err
	}
	prompt, err := prompts.ComprehensiveNote(in)
	if err != nil {
		return "", err
	}
	return g.text(ctx, prompt)
}

// GenerateCourseContent builds a full course from source material.
func (g *Generator) GenerateCourseContent(ctx context.Context, in prompts.CourseInput) (CourseContent, error) {
	ctx, err := g.begin(ctx, "course_content")
	if err != nil {
		return CourseContent{}, err
	}
	prompt, err := prompts.CourseContent(in)
	if err != nil {
		return CourseContent{}, err
	}
	var course CourseContent
	if err := g.structured(ctx, prompt, &course); err != nil {
		return CourseContent{}, err
	}
	course = normalizeCourse(course)
	logging.WithContext(ctx, g.logger).Info("course generated",
		logging.String("category", course.Category),
		logging.String("level", course.Level),
		logging.Int("lessons", len(course.Lessons)),
		logging.Int("quiz_questions", len(course.Quiz)),
		logging.Int("flashcards", len(course.Flashcards)),
	)
	return course, nil
}

// GenerateChatResponse answers a learner message in a few sentences. The reply
// is returned exactly as the model produced it.
func (g *Generator) GenerateChatResponse(ctx context.Context, message string, courses []CourseSummary) (string, error) {
	ctx, err := g.begin(ctx, "chat_response")
	if err != nil {
		return "", err
	}
	prompt, err := prompts.ChatResponse(prompts.ChatInput{Message: message, Courses: courses})
	if err != nil {
		return "", err
	}
	return g.text(ctx, prompt)
}

// GenerateAdditionalQuizQuestions returns up to in.Count new multiple-choice questions.
func (g *Generator) GenerateAdditionalQuizQuestions(ctx context.Context, in prompts.QuizInput) ([]QuizQuestion, error) {
	ctx, err := g.begin(ctx, "additional_quiz")
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.AdditionalQuiz(in)
	if err != nil {
		return nil, err
	}
	var extension QuizExtension
	if err := g.structured(ctx, prompt, &extension); err != nil {
		return nil, err
	}
	questions := normalizeQuestions(extension.Questions)
	if len(questions) > in.Count {
		questions = questions[:in.Count]
	}
	if len(questions) < in.Count {
		logging.WarnWithContext(logging.WithContext(ctx, g.logger), "model returned fewer quiz questions than requested", logging.EventQuizShort,
			logging.Int("requested", in.Count),
			logging.Int("received", len(questions)),
		)
	}
	return questions, nil
}

// begin tags the context for logging and fails fast when no key is configured.
func (g *Generator) begin(ctx context.Context, operation string) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !g.Enabled() {
		return ctx, services.Wrap(services.ErrConfiguration, component, operation,
			"AI generation is disabled: OpenRouter API key is not configured", nil)
	}
	ctx = services.WithOperation(ctx, operation)
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	return ctx, nil
}

func (g *Generator) text(ctx context.Context, prompt prompts.Prompt) (string, error) {
	started := time.Now()
	reply, err := g.client.Complete(ctx, llm.Request{Prompt: prompt.Text, JSON: prompt.JSON})
	if err != nil {
		return "", err
	}
	logging.WithContext(ctx, g.logger).Debug("text generated",
		logging.Int("length", len(reply)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return reply, nil
}

func (g *Generator) structured(ctx context.Context, prompt prompts.Prompt, target any) error {
	started := time.Now()
	if err := g.client.CompleteJSON(ctx, prompt.Text, target); err != nil {
		return err
	}
	logging.WithContext(ctx, g.logger).Debug("structured reply decoded",
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

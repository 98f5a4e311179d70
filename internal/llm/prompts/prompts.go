// Package prompts holds the prompt templates sent to LLM vendors. Templates
// are embedded at build time and rendered with text/template.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/inkgrade/essay-api/internal/domain"
)

//go:embed *.tmpl
var files embed.FS

var templates = template.Must(template.ParseFS(files, "*.tmpl"))

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// examLabel maps an exam type to the phrasing used inside prompts.
func examLabel(examType domain.ExamType) string {
	switch examType {
	case domain.ExamTypeTOEFL:
		return "TOEFL Writing"
	case domain.ExamTypeGRE:
		return "GRE Analytical Writing"
	default:
		return "IELTS Writing"
	}
}

// FeedbackData parameterizes the scoring prompts.
type FeedbackData struct {
	Exam        string
	Prompt      string
	Essay       string
	TargetScore string
}

// Feedback renders the system and user prompts for a full assessment.
func Feedback(prompt, essay string, examType domain.ExamType, targetScore string) (system, user string, err error) {
	data := FeedbackData{
		Exam:        examLabel(examType),
		Prompt:      prompt,
		Essay:       essay,
		TargetScore: targetScore,
	}
	if system, err = render("feedback_system.tmpl", data); err != nil {
		return "", "", err
	}
	if user, err = render("feedback_user.tmpl", data); err != nil {
		return "", "", err
	}
	return system, user, nil
}

// AnnotationData parameterizes the paragraph annotation prompts.
type AnnotationData struct {
	Exam           string
	Prompt         string
	Paragraph      string
	ParagraphIndex int
}

// Annotation renders the system and user prompts for one paragraph.
func Annotation(prompt, paragraph string, paragraphIndex int, examType domain.ExamType) (system, user string, err error) {
	data := AnnotationData{
		Exam:           examLabel(examType),
		Prompt:         prompt,
		Paragraph:      paragraph,
		ParagraphIndex: paragraphIndex,
	}
	if system, err = render("annotation_system.tmpl", data); err != nil {
		return "", "", err
	}
	if user, err = render("annotation_user.tmpl", data); err != nil {
		return "", "", err
	}
	return system, user, nil
}

// ExampleEssayData parameterizes the example essay prompts.
type ExampleEssayData struct {
	Exam        string
	Prompt      string
	Essay       string
	TargetScore string
}

// ExampleEssay renders the system and user prompts for an improved example.
func ExampleEssay(prompt, essay string, examType domain.ExamType, targetScore string) (system, user string, err error) {
	data := ExampleEssayData{
		Exam:        examLabel(examType),
		Prompt:      prompt,
		Essay:       essay,
		TargetScore: targetScore,
	}
	if system, err = render("example_system.tmpl", data); err != nil {
		return "", "", err
	}
	if user, err = render("example_user.tmpl", data); err != nil {
		return "", "", err
	}
	return system, user, nil
}

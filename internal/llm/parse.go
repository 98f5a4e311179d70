package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/kaptinlin/jsonrepair"
)

// stripFences removes markdown code fences that chat models like to wrap
// around JSON payloads.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractBalanced returns the first balanced run from open to close in s,
// ignoring brackets inside JSON strings. Models often surround the payload
// with prose; this digs the payload out.
func extractBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeJSON extracts the first JSON value of the wanted shape from raw and
// unmarshals it into v, repairing the payload if plain parsing fails.
func decodeJSON(raw string, v any, open, close byte) error {
	cleaned := stripFences(raw)

	payload, ok := extractBalanced(cleaned, open, close)
	if !ok {
		// No balanced payload at all; hand the whole thing to the repairer,
		// which also completes truncated output.
		payload = cleaned
	}

	if err := json.Unmarshal([]byte(payload), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// flexFloat unmarshals a JSON number that models sometimes quote as a string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

// clampScore snaps a raw model score to the band scale: half-band steps
// within [0, 9].
func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v*2) / 2
	if v < 0 {
		return 0
	}
	if v > 9 {
		return 9
	}
	return v
}

type feedbackPayload struct {
	ScoreTR  flexFloat `json:"score_tr"`
	ScoreCC  flexFloat `json:"score_cc"`
	ScoreLR  flexFloat `json:"score_lr"`
	ScoreGRA flexFloat `json:"score_gra"`

	FeedbackTR      string `json:"feedback_tr"`
	FeedbackCC      string `json:"feedback_cc"`
	FeedbackLR      string `json:"feedback_lr"`
	FeedbackGRA     string `json:"feedback_gra"`
	OverallFeedback string `json:"overall_feedback"`
}

// parseFeedback decodes a raw model response into a FeedbackResult.
func parseFeedback(raw string) (*FeedbackResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}

	var payload feedbackPayload
	if err := decodeJSON(raw, &payload, '{', '}'); err != nil {
		return nil, err
	}

	return &FeedbackResult{
		ScoreTR:         clampScore(float64(payload.ScoreTR)),
		ScoreCC:         clampScore(float64(payload.ScoreCC)),
		ScoreLR:         clampScore(float64(payload.ScoreLR)),
		ScoreGRA:        clampScore(float64(payload.ScoreGRA)),
		FeedbackTR:      strings.TrimSpace(payload.FeedbackTR),
		FeedbackCC:      strings.TrimSpace(payload.FeedbackCC),
		FeedbackLR:      strings.TrimSpace(payload.FeedbackLR),
		FeedbackGRA:     strings.TrimSpace(payload.FeedbackGRA),
		OverallFeedback: strings.TrimSpace(payload.OverallFeedback),
	}, nil
}

type annotationPayload struct {
	Type              string `json:"type"`
	OriginalContent   string `json:"original_content"`
	CorrectionContent string `json:"correction_content"`
	Suggestion        string `json:"suggestion"`
}

// parseAnnotations decodes a raw model response into annotations, dropping
// elements whose type is unknown or whose quoted span is empty. The
// paragraph-presence check happens later, against the actual paragraph.
func parseAnnotations(raw string) ([]domain.Annotation, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}

	var payload []annotationPayload
	if err := decodeJSON(raw, &payload, '[', ']'); err != nil {
		return nil, err
	}

	annotations := make([]domain.Annotation, 0, len(payload))
	for _, p := range payload {
		annType := domain.AnnotationType(strings.ToLower(strings.TrimSpace(p.Type)))
		if !annType.IsValid() {
			continue
		}
		if strings.TrimSpace(p.OriginalContent) == "" {
			continue
		}
		annotations = append(annotations, domain.Annotation{
			Type:              annType,
			OriginalContent:   p.OriginalContent,
			CorrectionContent: p.CorrectionContent,
			Suggestion:        p.Suggestion,
		})
	}
	return annotations, nil
}

type examplePayload struct {
	Content     string `json:"content"`
	Improvement string `json:"improvement"`
}

// parseExampleEssay decodes a raw model response into an ExampleEssayResult.
func parseExampleEssay(raw string) (*ExampleEssayResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}

	var payload examplePayload
	if err := decodeJSON(raw, &payload, '{', '}'); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Content) == "" {
		return nil, fmt.Errorf("%w: example essay content missing", ErrMalformedResponse)
	}

	return &ExampleEssayResult{
		Content:     strings.TrimSpace(payload.Content),
		Improvement: strings.TrimSpace(payload.Improvement),
	}, nil
}

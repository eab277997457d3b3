package analyzer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/csheth/emotionscope/internal/analysis"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// envelope is decoded first to tell success from failure.
type envelope struct {
	Success *bool  `json:"success" validate:"required"`
	Error   string `json:"error"`
}

// payload is the success body. Pointers distinguish "missing" from zero.
type payload struct {
	Duration       *float64                `json:"duration" validate:"required,gte=0"`
	TotalSegments  *int                    `json:"total_segments" validate:"omitempty,gte=0"`
	EmotionSummary map[string]summaryEntry `json:"emotion_summary"`
	Results        []wireSegment           `json:"results" validate:"required,dive"`
}

type summaryEntry struct {
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
	AvgConfidence float64 `json:"avg_confidence"`
}

type wireSegment struct {
	Timestamp    string   `json:"timestamp"`
	StartSeconds *float64 `json:"start_seconds" validate:"required,gte=0"`
	EndSeconds   float64  `json:"end_seconds"`
	Text         string   `json:"text"`
	Emotion      string   `json:"emotion"`
	Confidence   *float64 `json:"confidence" validate:"required,gte=0,lte=100"`
	Sentiment    string   `json:"sentiment"`
}

func decodeAnalysis(raw []byte) (analysis.Result, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return analysis.Result{}, &Error{Kind: KindMalformed, Message: "invalid JSON", Err: err}
	}
	if err := validatorInstance().Struct(env); err != nil {
		return analysis.Result{}, &Error{Kind: KindMalformed, Message: describe(err)}
	}
	if !*env.Success {
		return analysis.Result{}, &Error{Kind: KindApplication, Message: env.Error}
	}

	var body payload
	if err := json.Unmarshal(raw, &body); err != nil {
		return analysis.Result{}, &Error{Kind: KindMalformed, Message: "invalid JSON", Err: err}
	}
	if err := validatorInstance().Struct(body); err != nil {
		return analysis.Result{}, &Error{Kind: KindMalformed, Message: describe(err)}
	}

	segments := make([]analysis.Segment, len(body.Results))
	for i, s := range body.Results {
		segments[i] = analysis.Segment{
			Timestamp:    s.Timestamp,
			StartSeconds: *s.StartSeconds,
			EndSeconds:   s.EndSeconds,
			Text:         s.Text,
			Emotion:      s.Emotion,
			Confidence:   *s.Confidence,
			Sentiment:    s.Sentiment,
		}
	}
	return analysis.Result{Duration: *body.Duration, Segments: segments}, nil
}

func decodeHealth(raw []byte) (Health, error) {
	var h Health
	if err := json.Unmarshal(raw, &h); err != nil {
		return Health{}, &Error{Kind: KindMalformed, Message: "invalid health JSON", Err: err}
	}
	return h, nil
}

// DecodeResponse decodes a saved /analyze response body, as used by the
// offline report command.
func DecodeResponse(raw []byte) (analysis.Result, error) {
	return decodeAnalysis(raw)
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "envelope.")
		field = strings.TrimPrefix(field, "payload.")
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is missing", field))
		default:
			parts = append(parts, fmt.Sprintf("%s fails %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}

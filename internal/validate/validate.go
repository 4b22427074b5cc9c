package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Kind selects which data schema applies to an imported payload.
type Kind string

const (
	KindChart    Kind = "chart"
	KindStudent  Kind = "student"
	KindScore    Kind = "score"
	KindTemplate Kind = "template"
)

// Result is the structured outcome of a validation. Error carries only the
// first violation (field path + message), deliberately not an exhaustive
// list; callers fix and re-validate.
type Result struct {
	IsValid bool   `json:"is_valid"`
	Data    any    `json:"data,omitempty"`
	Field   string `json:"field,omitempty"`
	Error   string `json:"error,omitempty"`
}

var schema = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field paths using payload names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ChartData is the labels/datasets payload charts bind to.
type ChartData struct {
	Labels   []string       `json:"labels" mapstructure:"labels" validate:"required,min=1"`
	Datasets []ChartDataset `json:"datasets" mapstructure:"datasets" validate:"required,min=1,dive"`
}

type ChartDataset struct {
	Label  string    `json:"label" mapstructure:"label" validate:"required"`
	Data   []float64 `json:"data" mapstructure:"data" validate:"required,min=1"`
	Colors []string  `json:"colors,omitempty" mapstructure:"colors"`
}

type StudentInfo struct {
	StudentName string `json:"studentName" mapstructure:"studentName" validate:"required"`
	StudentID   string `json:"studentId" mapstructure:"studentId" validate:"required"`
	Classroom   string `json:"classroom,omitempty" mapstructure:"classroom"`
	Teacher     string `json:"teacher,omitempty" mapstructure:"teacher"`
	Semester    string `json:"semester,omitempty" mapstructure:"semester"`
}

type ScoreData struct {
	Subjects     []SubjectScore `json:"subjects" mapstructure:"subjects" validate:"required,min=1,dive"`
	OverallGrade string         `json:"overallGrade,omitempty" mapstructure:"overallGrade"`
	GPA          *float64       `json:"gpa,omitempty" mapstructure:"gpa" validate:"omitempty,gte=0,lte=4"`
	Rank         *int           `json:"rank,omitempty" mapstructure:"rank" validate:"omitempty,gt=0"`
}

type SubjectScore struct {
	Name     string   `json:"name" mapstructure:"name" validate:"required"`
	Score    *float64 `json:"score" mapstructure:"score" validate:"required,gte=0,lte=100"`
	Grade    string   `json:"grade" mapstructure:"grade" validate:"required"`
	MaxScore *float64 `json:"maxScore,omitempty" mapstructure:"maxScore" validate:"omitempty,gt=0"`
}

// TemplateData is the generic render payload: optional student identity
// fields plus arbitrary per-subject score/grade keys.
type TemplateData struct {
	StudentName string         `json:"studentName,omitempty" mapstructure:"studentName"`
	StudentID   string         `json:"studentId,omitempty" mapstructure:"studentId"`
	Classroom   string         `json:"classroom,omitempty" mapstructure:"classroom"`
	Extra       map[string]any `json:"-" mapstructure:",remain"`
}

// ValidateJSON performs only the strict parse step; a syntax failure yields
// the parser's own message.
func ValidateJSON(text string) Result {
	var data any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return Result{IsValid: false, Error: err.Error()}
	}
	return Result{IsValid: true, Data: data}
}

// Validate parses raw JSON text and applies the schema for the given kind.
func Validate(kind Kind, text string) Result {
	parsed := ValidateJSON(text)
	if !parsed.IsValid {
		return parsed
	}
	switch kind {
	case KindChart:
		return ValidateChartData(parsed.Data)
	case KindStudent:
		return ValidateStudentInfo(parsed.Data)
	case KindScore:
		return ValidateScoreData(parsed.Data)
	case KindTemplate:
		return ValidateTemplateData(parsed.Data)
	default:
		return Result{IsValid: false, Error: fmt.Sprintf("unknown data kind %q", kind)}
	}
}

// KnownKind reports whether kind names one of the four schemas.
func KnownKind(kind Kind) bool {
	switch kind {
	case KindChart, KindStudent, KindScore, KindTemplate:
		return true
	}
	return false
}

func ValidateChartData(parsed any) Result {
	var data ChartData
	return validateInto(parsed, &data)
}

func ValidateStudentInfo(parsed any) Result {
	var data StudentInfo
	return validateInto(parsed, &data)
}

func ValidateScoreData(parsed any) Result {
	var data ScoreData
	return validateInto(parsed, &data)
}

func ValidateTemplateData(parsed any) Result {
	var data TemplateData
	res := validateInto(parsed, &data)
	if !res.IsValid {
		return res
	}

	// The generic payload allows arbitrary per-subject fields; scores must
	// still be numbers in 0-100 and grades strings. Keys are checked in
	// sorted order so the first reported violation is deterministic.
	keys := make([]string, 0, len(data.Extra))
	for k := range data.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := data.Extra[k]
		switch {
		case strings.HasSuffix(k, "Score"):
			n, ok := toNumber(v)
			if !ok {
				return invalid(k, "must be a number")
			}
			if n < 0 || n > 100 {
				return invalid(k, "must be between 0 and 100")
			}
		case strings.HasSuffix(k, "Grade"):
			if _, ok := v.(string); !ok {
				return invalid(k, "must be a string")
			}
		}
	}
	return Result{IsValid: true, Data: data}
}

// validateInto decodes a parsed JSON value into the typed schema record and
// runs the tag validators, translating only the first failure.
func validateInto(parsed any, dst any) Result {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  dst,
		TagName: "mapstructure",
	})
	if err != nil {
		return Result{IsValid: false, Error: err.Error()}
	}
	if err := dec.Decode(parsed); err != nil {
		// A type mismatch (e.g. a string where a number belongs) is a
		// schema violation, reported with the decoder's field path.
		return Result{IsValid: false, Error: firstDecodeError(err)}
	}

	if err := schema.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return invalid(fieldPath(fe), messageFor(fe))
		}
		return Result{IsValid: false, Error: err.Error()}
	}

	return Result{IsValid: true, Data: reflect.ValueOf(dst).Elem().Interface()}
}

func invalid(field, message string) Result {
	return Result{IsValid: false, Field: field, Error: field + " " + message}
}

// fieldPath strips the root struct name from the validator namespace,
// leaving the payload path, e.g. "subjects[0].score".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s items", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func firstDecodeError(err error) string {
	// mapstructure aggregates failures; keep only the first line for the
	// first-error-wins contract.
	msg := err.Error()
	msg = strings.TrimPrefix(msg, "1 error(s) decoding:\n\n* ")
	if i := strings.Index(msg, "error(s) decoding:\n\n* "); i >= 0 {
		msg = msg[i+len("error(s) decoding:\n\n* "):]
	}
	if i := strings.Index(msg, "\n"); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

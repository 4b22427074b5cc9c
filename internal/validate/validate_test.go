package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamplesPassTheirOwnSchemas(t *testing.T) {
	for _, kind := range []Kind{KindChart, KindStudent, KindScore, KindTemplate} {
		example, err := ExampleJSON(kind)
		require.NoError(t, err, "kind %s", kind)

		result := Validate(kind, example)
		assert.True(t, result.IsValid, "kind %s: %s", kind, result.Error)
	}
}

func TestExampleJSONUnknownKind(t *testing.T) {
	_, err := ExampleJSON("bogus")
	assert.Error(t, err)
}

func TestKnownKind(t *testing.T) {
	assert.True(t, KnownKind(KindChart))
	assert.True(t, KnownKind(KindTemplate))
	assert.False(t, KnownKind("bogus"))
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	result := Validate(KindChart, `{"labels": [`)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Error)
}

func TestValidateUnknownKind(t *testing.T) {
	result := Validate("bogus", `{}`)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Error, "unknown data kind")
}

func TestChartDataRequiresLabels(t *testing.T) {
	result := Validate(KindChart, `{"datasets":[{"label":"x","data":[1]}]}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "labels", result.Field)
	assert.Contains(t, result.Error, "is required")
}

func TestChartDataRequiresNonEmptyDatasets(t *testing.T) {
	result := Validate(KindChart, `{"labels":["Math"],"datasets":[]}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "datasets", result.Field)
	assert.Contains(t, result.Error, "at least 1")
}

func TestChartDataReportsFirstErrorOnly(t *testing.T) {
	// Both labels and datasets are missing; only the first violation in
	// schema order is reported.
	result := Validate(KindChart, `{}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "labels", result.Field)
}

func TestChartDataTypeMismatchIsSchemaError(t *testing.T) {
	result := Validate(KindChart, `{"labels":"Math","datasets":[{"label":"x","data":[1]}]}`)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Error)
}

func TestScoreDataRejectsOutOfRangeScore(t *testing.T) {
	result := Validate(KindScore, `{
	  "subjects": [{"name": "Math", "score": 150, "grade": "A"}]
	}`)

	require.False(t, result.IsValid)
	assert.Equal(t, "subjects[0].score", result.Field)
	assert.Equal(t, "subjects[0].score must be at most 100", result.Error)
}

func TestScoreDataRejectsNegativeScore(t *testing.T) {
	result := Validate(KindScore, `{
	  "subjects": [{"name": "Math", "score": -1, "grade": "F"}]
	}`)

	require.False(t, result.IsValid)
	assert.Equal(t, "subjects[0].score", result.Field)
	assert.Contains(t, result.Error, "at least 0")
}

func TestScoreDataAcceptsZeroScore(t *testing.T) {
	// Zero is a valid score; the required check must use the pointer's
	// presence, not its value.
	result := Validate(KindScore, `{
	  "subjects": [{"name": "Math", "score": 0, "grade": "F"}]
	}`)
	assert.True(t, result.IsValid, result.Error)
}

func TestScoreDataGPARange(t *testing.T) {
	result := Validate(KindScore, `{
	  "subjects": [{"name": "Math", "score": 90, "grade": "A"}],
	  "gpa": 4.5
	}`)

	require.False(t, result.IsValid)
	assert.Equal(t, "gpa", result.Field)
	assert.Contains(t, result.Error, "at most 4")
}

func TestStudentInfoRequiresIdentity(t *testing.T) {
	result := Validate(KindStudent, `{"classroom": "Room 3"}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "studentName", result.Field)
}

func TestTemplateDataScoreFieldsMustBeNumbers(t *testing.T) {
	result := Validate(KindTemplate, `{"mathScore": "high"}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "mathScore", result.Field)
	assert.Contains(t, result.Error, "must be a number")
}

func TestTemplateDataScoreFieldsMustBeInRange(t *testing.T) {
	result := Validate(KindTemplate, `{"mathScore": 150}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "mathScore", result.Field)
	assert.Contains(t, result.Error, "between 0 and 100")
}

func TestTemplateDataGradeFieldsMustBeStrings(t *testing.T) {
	result := Validate(KindTemplate, `{"mathGrade": 5}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "mathGrade", result.Field)
	assert.Contains(t, result.Error, "must be a string")
}

func TestTemplateDataFirstViolationIsDeterministic(t *testing.T) {
	// Two bad keys; the lexicographically first one is always reported.
	result := Validate(KindTemplate, `{"scienceScore": "x", "artScore": "y"}`)
	require.False(t, result.IsValid)
	assert.Equal(t, "artScore", result.Field)
}

func TestTemplateDataAllowsArbitraryExtraKeys(t *testing.T) {
	result := Validate(KindTemplate, `{
	  "studentName": "Ada",
	  "customNote": "free text",
	  "mathScore": 85,
	  "mathGrade": "B"
	}`)
	assert.True(t, result.IsValid, result.Error)
}

func TestValidateJSONPassThrough(t *testing.T) {
	ok := ValidateJSON(`{"a": 1}`)
	assert.True(t, ok.IsValid)

	bad := ValidateJSON(`not json`)
	assert.False(t, bad.IsValid)
	assert.NotEmpty(t, bad.Error)
}

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteReplacesKnownTokens(t *testing.T) {
	data := map[string]any{
		"studentName": "Ada",
		"mathScore":   85,
	}

	result := Substitute("{{studentName}} scored {{mathScore}} in Math", data)
	assert.Equal(t, "Ada scored 85 in Math", result)
}

func TestSubstituteKeepsUnknownTokensVerbatim(t *testing.T) {
	data := map[string]any{"studentName": "Ada"}

	result := Substitute("{{studentName}} / {{teacherName}}", data)
	assert.Equal(t, "Ada / {{teacherName}}", result)
}

func TestSubstituteIsSinglePass(t *testing.T) {
	// A substituted value containing token syntax must not be re-expanded.
	data := map[string]any{
		"outer": "{{inner}}",
		"inner": "should never appear",
	}

	result := Substitute("value: {{outer}}", data)
	assert.Equal(t, "value: {{inner}}", result)
}

func TestSubstituteCoercesValues(t *testing.T) {
	data := map[string]any{
		"int":    42,
		"float":  3.5,
		"bool":   true,
		"nilVal": nil,
	}

	assert.Equal(t, "42", Substitute("{{int}}", data))
	assert.Equal(t, "3.5", Substitute("{{float}}", data))
	assert.Equal(t, "true", Substitute("{{bool}}", data))
	assert.Equal(t, "", Substitute("{{nilVal}}", data))
}

func TestSubstituteEmptyAndTokenFreeStrings(t *testing.T) {
	data := map[string]any{"x": "y"}

	assert.Equal(t, "", Substitute("", data))
	assert.Equal(t, "plain text", Substitute("plain text", data))
	assert.Equal(t, "{not a token}", Substitute("{not a token}", data))
}

func TestExtractVariables(t *testing.T) {
	names := ExtractVariables("{{a}} {{b}} {{a}} text {{c}}")
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestExtractVariablesNone(t *testing.T) {
	assert.Nil(t, ExtractVariables("no tokens here"))
}

func TestCollectVariablesWalksChildren(t *testing.T) {
	components := []Component{
		{
			ID:   "c1",
			Type: TypeHeader,
			Content: map[string]any{
				"title": "{{studentName}} Report",
			},
			Children: []Component{
				{
					ID:   "c2",
					Type: TypeTextBlock,
					Content: map[string]any{
						"text": "Score: {{mathScore}}, Name: {{studentName}}",
					},
				},
			},
		},
	}

	names := CollectVariables(components)
	assert.Equal(t, []string{"studentName", "mathScore"}, names)
}

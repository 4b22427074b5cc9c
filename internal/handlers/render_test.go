package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RB-CORE/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRenderRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewRenderHandler(nil, nil, t.TempDir())
	r := gin.New()
	r.POST("/render/preview", h.PreviewTemplate)
	r.POST("/validate/:kind", h.ValidateData)
	r.GET("/validate/:kind/example", h.GetExample)
	return r
}

func TestPreviewRendersInlineComponents(t *testing.T) {
	r := setupRenderRouter(t)

	body := `{
	  "template_name": "Preview for {{studentName}}",
	  "data": {"studentName": "Ada"},
	  "components": [
	    {"id":"c1","type":"header","content":{"title":"{{studentName}} Report"},"position":{"x":0,"y":0}}
	  ]
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/render/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Ada Report")
	assert.Contains(t, w.Body.String(), "<title>Preview for Ada</title>")
}

func TestPreviewRejectsMalformedBody(t *testing.T) {
	r := setupRenderRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/render/preview", strings.NewReader("{bad"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateEndpointReportsResult(t *testing.T) {
	r := setupRenderRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate/score",
		strings.NewReader(`{"subjects":[{"name":"Math","score":150,"grade":"A"}]}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result validate.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, "subjects[0].score", result.Field)
}

func TestValidateEndpointUnknownKind(t *testing.T) {
	r := setupRenderRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate/bogus", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExampleEndpointReturnsValidPayload(t *testing.T) {
	r := setupRenderRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/validate/chart/example", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	result := validate.Validate(validate.KindChart, w.Body.String())
	assert.True(t, result.IsValid, result.Error)
}

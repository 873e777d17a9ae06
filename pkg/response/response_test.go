package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestJSONWritesEnvelope(t *testing.T) {
	c, w := newContext()
	JSON(c, http.StatusOK, []string{"a"}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, map[string]interface{}{"cache_hit": true})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "pagination")
	assert.Equal(t, true, body["meta"].(map[string]interface{})["cache_hit"])
	assert.NotContains(t, body, "error")
}

func TestJSONOmitsEmptyMeta(t *testing.T) {
	c, w := newContext()
	JSON(c, http.StatusOK, "ok", nil, map[string]interface{}{})

	assert.NotContains(t, w.Body.String(), "meta")
}

func TestErrorUsesKindStatus(t *testing.T) {
	c, w := newContext()
	Error(c, appErrors.Clone(appErrors.ErrCapacityExceeded, "event is full"))

	require.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"error":{"code":"CAPACITY_EXCEEDED","message":"event is full"}}`, w.Body.String())
	require.Len(t, c.Errors, 1)
}

func TestErrorHidesUntypedErrors(t *testing.T) {
	c, w := newContext()
	Error(c, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestAttachment(t *testing.T) {
	c, w := newContext()
	Attachment(c, "/tmp/exports/report.csv", "text/csv", 3, strings.NewReader("a,b"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="report.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "a,b", w.Body.String())
}

package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondWithMessage(t *testing.T) {
	c, w := testContext(t)

	RespondWithMessage(c, "appointment status updated", map[string]string{"status": "confirmed"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "appointment status updated", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["status"])
}

func TestRespondWithPagination(t *testing.T) {
	c, w := testContext(t)

	RespondWithPagination(c, []string{"a", "b"}, 2, 50, 101)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	paged := body["data"].(map[string]interface{})
	meta := paged["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(50), meta["page_size"])
	assert.Equal(t, float64(101), meta["total"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestRespondWithErrorMapsCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NotFound("appointment", nil), http.StatusNotFound},
		{"bad request", apperrors.BadRequest("invalid request body", nil), http.StatusBadRequest},
		{"invalid status", apperrors.InvalidStatus("scheduled"), http.StatusBadRequest},
		{"unauthorized", apperrors.Unauthorized(nil), http.StatusUnauthorized},
		{"forbidden", apperrors.Forbidden("nope", nil), http.StatusForbidden},
		{"internal", apperrors.Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext(t)
			RespondWithError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body["message"], "internals must not leak detail")
			}
		})
	}
}

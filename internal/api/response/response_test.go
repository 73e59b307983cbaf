package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"trailnote-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func TestErrorMapsKindsToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err        error
		wantStatus int
		wantType   string
	}{
		{service.ErrDiaryNotFound, http.StatusNotFound, "NotFound"},
		{service.ErrReviewNoPermission, http.StatusForbidden, "Forbidden"},
		{service.ErrInvalidSort, http.StatusBadRequest, "BadRequest"},
		{service.ErrAlreadyLiked, http.StatusConflict, "AlreadyDone"},
		{service.ErrNotFavorited, http.StatusConflict, "NotDone"},
		{service.ErrCounterConflict, http.StatusConflict, "Conflict"},
		{fmt.Errorf("like: %w", service.ErrAlreadyLiked), http.StatusConflict, "AlreadyDone"},
		{service.Fatal("like", errors.New("deadlock")), http.StatusServiceUnavailable, "ServiceUnavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "InternalServerError"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/diaries/x", nil)

			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Type != tt.wantType || body.Error.Code != tt.wantStatus {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}

func TestErrorKeepsBusinessMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, fmt.Errorf("review: %w", service.ErrRejectReasonRequired))

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Message != service.ErrRejectReasonRequired.Error() {
		t.Fatalf("message = %q", body.Error.Message)
	}
}

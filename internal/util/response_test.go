package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// 视频直传的格式/内容校验失败属于调用方输入错误，必须映射为400而不是500
func TestFromErrorMapsUploadValidationTo400(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, err := range []error{ErrInvalidVideoExt, ErrInvalidVideoContent} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		FromError(c, err)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: status = %d, want 400", err, w.Code)
		}
	}
}

func TestFromErrorStatusFamilies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{ErrProductNotFound, http.StatusNotFound},
		{ErrEmailAlreadyRegistered, http.StatusConflict},
		{ErrDuplicateResourceOrder, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrPermissionDenied, http.StatusForbidden},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		FromError(c, tt.err)
		if w.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}

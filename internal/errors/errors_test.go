package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := DatabaseError("failed to load vehicle", cause).WithOperation("GetByID")

	assert.Equal(t, "DATABASE_ERROR: failed to load vehicle (caused by: connection refused)", err.Error())
	assert.Equal(t, "GetByID", err.Operation)
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.File, "errors_test.go")
}

func TestHTTPStatus(t *testing.T) {
	notFound := NotFound("vehicle not found", nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", notFound, http.StatusNotFound},
		{"not found wrapped by service", ServiceError("analyze failed", notFound), http.StatusNotFound},
		{"invalid input", InvalidInput("bad", nil), http.StatusBadRequest},
		{"validation", ValidationError("bad", nil), http.StatusBadRequest},
		{"conflict", Conflict("busy", nil), http.StatusConflict},
		{"database", DatabaseError("down", nil), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("wrapped: %w", stderrors.New("x")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidInput, CodeOf(fmt.Errorf("ctx: %w", InvalidInput("bad", nil))))
	assert.Equal(t, ErrCodeInternalError, CodeOf(stderrors.New("plain")))
}

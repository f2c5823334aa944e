package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppError_Classification(t *testing.T) {
	validation := NewValidationError("State fun facts value required")
	notFound := NewNotFoundError("No Fun Facts found for Kansas")
	database := NewDatabaseError("FindByCode", stderrors.New("connection reset"))

	assert.True(t, IsType(validation, ErrorTypeValidation))
	assert.True(t, IsType(notFound, ErrorTypeNotFound))
	assert.True(t, IsDatabase(database))
	assert.False(t, IsType(validation, ErrorTypeNotFound))

	wrapped := fmt.Errorf("service: %w", notFound)
	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
	assert.Equal(t, notFound, GetAppError(wrapped))

	assert.Equal(t, http.StatusBadRequest, validation.HTTPStatus)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, database.HTTPStatus)
	assert.ErrorContains(t, database, "connection reset")
}

func TestAppError_PublicMessage(t *testing.T) {
	assert.Equal(t, "bad", NewValidationError("bad").PublicMessage())
	assert.Equal(t, InternalMessage, NewDatabaseError("Save", stderrors.New("secret dsn")).PublicMessage())
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", NewValidationError("State fun fact index value required"), http.StatusBadRequest, "State fun fact index value required"},
		{"not found", NewNotFoundError("Invalid state abbreviation parameter"), http.StatusNotFound, "Invalid state abbreviation parameter"},
		{"database hides cause", NewDatabaseError("Save", stderrors.New("mongodb://user:pw@host")), http.StatusInternalServerError, InternalMessage},
		{"plain error hides text", stderrors.New("driver exploded"), http.StatusInternalServerError, InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/states/KS", nil)
			rec := httptest.NewRecorder()

			handler.Handle(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
		})
	}
}

func TestErrorHandler_Middleware_RecoversPanics(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop())
	panicking := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	rec := httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, InternalMessage, decodeMessage(t, rec))
}

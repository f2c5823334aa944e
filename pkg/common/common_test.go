package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"statesapi/domain/core/entities"
	apperrors "statesapi/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, RespondJSON(rec, http.StatusCreated, map[string]string{"funfact": "x"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"funfact":"x"}`, rec.Body.String())
}

func TestReadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"facts":[]}`))
	body, err := ReadBody(httptest.NewRecorder(), req, MaxBodyBytes)
	require.NoError(t, err)
	assert.Equal(t, `{"facts":[]}`, string(body))
}

func TestReadBody_TooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 64)))
	_, err := ReadBody(httptest.NewRecorder(), req, 16)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, appErr.HTTPStatus)
}

func TestStateContext(t *testing.T) {
	_, ok := GetState(context.Background())
	assert.False(t, ok)

	ctx := WithState(context.Background(), entities.StateRecord{Code: "KS", Name: "Kansas"})
	record, ok := GetState(ctx)
	require.True(t, ok)
	assert.Equal(t, "Kansas", record.Name)
}

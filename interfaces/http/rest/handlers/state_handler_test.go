package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"statesapi/application/services"
	"statesapi/domain/reference"
	"statesapi/infrastructure/persistence/memory"
	"statesapi/pkg/common"
	"statesapi/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStateHandler() (*StateHandler, *reference.Dataset) {
	dataset := reference.MustLoad()
	logger := zap.NewNop()
	service := services.NewStateService(dataset, memory.NewFactRepository(), nil, logger)
	return NewStateHandler(service, errors.NewErrorHandler(logger), logger), dataset
}

func TestStateHandler_RequiresResolvedState(t *testing.T) {
	h, _ := newTestStateHandler()

	rec := httptest.NewRecorder()
	h.GetCapital(rec, httptest.NewRequest(http.MethodGet, "/states/ks/capital", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid state abbreviation parameter"}`, rec.Body.String())
}

func TestStateHandler_UsesContextRecord(t *testing.T) {
	h, dataset := newTestStateHandler()
	record, ok := dataset.Lookup("TX")
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/states/tx/nickname", nil)
	req = req.WithContext(common.WithState(req.Context(), record))
	rec := httptest.NewRecorder()

	h.GetNickname(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"Texas","nickname":"Lone Star State"}`, rec.Body.String())
}

func TestStateHandler_CreateRejectsEmptyBody(t *testing.T) {
	h, dataset := newTestStateHandler()
	record, _ := dataset.Lookup("MO")

	req := httptest.NewRequest(http.MethodPost, "/states/mo/funfact", nil)
	req = req.WithContext(common.WithState(req.Context(), record))
	rec := httptest.NewRecorder()

	h.CreateFunFacts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"State fun facts value required"}`, rec.Body.String())
}

package handlers

import (
	"net/http"

	"statesapi/application/commands"
	"statesapi/application/queries"
	"statesapi/application/services"
	"statesapi/domain/core/entities"
	"statesapi/interfaces/http/rest/middleware"
	"statesapi/pkg/common"
	"statesapi/pkg/errors"

	"go.uber.org/zap"
)

// StateHandler handles the /states endpoints
type StateHandler struct {
	service      *services.StateService
	errorHandler *errors.ErrorHandler
	logger       *zap.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(
	service *services.StateService,
	errorHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *StateHandler {
	return &StateHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// ListStates handles GET /states
func (h *StateHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	query := queries.NewListStatesQuery(r.URL.Query().Get("contig"))

	states, err := h.service.ListStates(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, states)
}

// GetState handles GET /states/{state}
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	record, ok := h.state(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetState(r.Context(), record)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

// GetCapital handles GET /states/{state}/capital
func (h *StateHandler) GetCapital(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.state(w, r); ok {
		h.respondJSON(w, http.StatusOK, h.service.Capital(record))
	}
}

// GetNickname handles GET /states/{state}/nickname
func (h *StateHandler) GetNickname(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.state(w, r); ok {
		h.respondJSON(w, http.StatusOK, h.service.Nickname(record))
	}
}

// GetPopulation handles GET /states/{state}/population
func (h *StateHandler) GetPopulation(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.state(w, r); ok {
		h.respondJSON(w, http.StatusOK, h.service.Population(record))
	}
}

// GetAdmission handles GET /states/{state}/admission
func (h *StateHandler) GetAdmission(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.state(w, r); ok {
		h.respondJSON(w, http.StatusOK, h.service.Admission(record))
	}
}

// GetRandomFunFact handles GET /states/{state}/funfact
func (h *StateHandler) GetRandomFunFact(w http.ResponseWriter, r *http.Request) {
	record, ok := h.state(w, r)
	if !ok {
		return
	}

	fact, err := h.service.RandomFunFact(r.Context(), record)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, fact)
}

// CreateFunFacts handles POST /states/{state}/funfact
func (h *StateHandler) CreateFunFacts(w http.ResponseWriter, r *http.Request) {
	record, ok := h.state(w, r)
	if !ok {
		return
	}

	body, err := common.ReadBody(w, r, common.MaxBodyBytes)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	cmd, err := commands.ParseAppendFunFacts(body)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	state, err := h.service.AppendFunFacts(r.Context(), record, cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, state)
}

// UpdateFunFact handles PATCH /states/{state}/funfact
func (h *StateHandler) UpdateFunFact(w http.ResponseWriter, r *http.Request) {
	record, ok := h.state(w, r)
	if !ok {
		return
	}

	body, err := common.ReadBody(w, r, common.MaxBodyBytes)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	cmd, err := commands.ParseUpdateFunFact(body)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	state, err := h.service.UpdateFunFact(r.Context(), record, cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

// DeleteFunFact handles DELETE /states/{state}/funfact
func (h *StateHandler) DeleteFunFact(w http.ResponseWriter, r *http.Request) {
	record, ok := h.state(w, r)
	if !ok {
		return
	}

	body, err := common.ReadBody(w, r, common.MaxBodyBytes)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	cmd, err := commands.ParseDeleteFunFact(body)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	state, err := h.service.DeleteFunFact(r.Context(), record, cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

// state returns the record resolved by VerifyState
func (h *StateHandler) state(w http.ResponseWriter, r *http.Request) (entities.StateRecord, bool) {
	record, ok := middleware.StateFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, errors.NewNotFoundError(middleware.MsgInvalidState))
	}
	return record, ok
}

func (h *StateHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

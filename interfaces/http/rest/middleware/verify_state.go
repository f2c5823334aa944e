package middleware

import (
	"context"
	"net/http"

	"statesapi/domain/core/entities"
	"statesapi/domain/reference"
	"statesapi/pkg/common"
	"statesapi/pkg/errors"

	"github.com/go-chi/chi/v5"
)

// MsgInvalidState is returned for any {state} that is not one of the 50 codes
const MsgInvalidState = "Invalid state abbreviation parameter"

// VerifyState resolves the {state} URL parameter case-insensitively and
// attaches the state's record to the request context. Unknown codes get a
// 404 and never reach the handler.
func VerifyState(dataset *reference.Dataset, errorHandler *errors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			record, ok := dataset.Lookup(chi.URLParam(r, "state"))
			if !ok {
				errorHandler.Handle(w, r, errors.NewNotFoundError(MsgInvalidState))
				return
			}
			next.ServeHTTP(w, r.WithContext(common.WithState(r.Context(), record)))
		})
	}
}

// StateFromContext returns the record attached by VerifyState
func StateFromContext(ctx context.Context) (entities.StateRecord, bool) {
	return common.GetState(ctx)
}

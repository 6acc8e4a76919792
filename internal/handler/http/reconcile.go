package http

import (
	"net/http"

	"github.com/atlashr/personnel-backend-go/internal/handler/http/response"
	reconcileservice "github.com/atlashr/personnel-backend-go/internal/service/reconcile"
	"github.com/go-chi/chi/v5"
)

type ReconcileHandler interface {
	RunBatch(w http.ResponseWriter, r *http.Request)
	RunPerson(w http.ResponseWriter, r *http.Request)
}

type ReconcileHandlerImpl struct {
	reconcileService *reconcileservice.Service
}

func NewReconcileHandler(reconcileService *reconcileservice.Service) ReconcileHandler {
	return &ReconcileHandlerImpl{reconcileService: reconcileService}
}

// RunBatch triggers the two-pass reconciliation on demand, outside the
// scheduled runs.
func (h *ReconcileHandlerImpl) RunBatch(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reconcileService.ReconcileAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation finished", map[string]int{
		"updated": summary.Updated,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	})
}

// RunPerson reconciles a single person's availability flag.
func (h *ReconcileHandlerImpl) RunPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "id")
	if personID == "" {
		response.BadRequest(w, "Person ID is required", nil)
		return
	}

	updated, err := h.reconcileService.ReconcilePerson(r.Context(), personID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Person reconciled", map[string]interface{}{
		"person_id": personID,
		"updated":   updated,
	})
}

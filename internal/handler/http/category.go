package http

import (
	"net/http"

	"github.com/atlashr/personnel-backend-go/internal/domain/category"
	"github.com/atlashr/personnel-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler interface {
	ListLeaveCategories(w http.ResponseWriter, r *http.Request)
	GetLeaveCategory(w http.ResponseWriter, r *http.Request)
	ListAbsenceTypes(w http.ResponseWriter, r *http.Request)
	GetAbsenceType(w http.ResponseWriter, r *http.Request)
}

type CategoryHandlerImpl struct {
	registry category.Registry
}

func NewCategoryHandler(registry category.Registry) CategoryHandler {
	return &CategoryHandlerImpl{registry: registry}
}

// ListLeaveCategories implements CategoryHandler.
func (c *CategoryHandlerImpl) ListLeaveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.registry.ListLeaveCategories(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, category.NewLeaveCategoryResponses(categories))
}

// GetLeaveCategory implements CategoryHandler.
func (c *CategoryHandlerImpl) GetLeaveCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "id")
	if categoryID == "" {
		response.BadRequest(w, "Category ID is required", nil)
		return
	}

	cat, err := c.registry.GetLeaveCategory(r.Context(), categoryID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, category.NewLeaveCategoryResponse(cat))
}

// ListAbsenceTypes implements CategoryHandler.
func (c *CategoryHandlerImpl) ListAbsenceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := c.registry.ListAbsenceTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, category.NewAbsenceTypeResponses(types))
}

// GetAbsenceType implements CategoryHandler.
func (c *CategoryHandlerImpl) GetAbsenceType(w http.ResponseWriter, r *http.Request) {
	typeID := chi.URLParam(r, "id")
	if typeID == "" {
		response.BadRequest(w, "Type ID is required", nil)
		return
	}

	typ, err := c.registry.GetAbsenceType(r.Context(), typeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, category.NewAbsenceTypeResponse(typ))
}

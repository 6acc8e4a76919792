package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/handler/http/response"
	leaveservice "github.com/atlashr/personnel-backend-go/internal/service/leave"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	UpdateReason(w http.ResponseWriter, r *http.Request)
	GetAllowance(w http.ResponseWriter, r *http.Request)
	CheckAvailability(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService *leaveservice.RequestService
}

func NewLeaveHandler(leaveService *leaveservice.RequestService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := l.leaveService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.NewRequestResponse(created))
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	request, err := l.leaveService.Get(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewRequestResponse(request))
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRequestFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	requests, total, err := l.leaveService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, leave.NewRequestResponses(requests), &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages(total, filter.Limit),
	})
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.ApproveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	approved, err := l.leaveService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leave.NewRequestResponse(approved))
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	rejected, err := l.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", leave.NewRequestResponse(rejected))
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	cancelled, err := l.leaveService.Cancel(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", leave.NewRequestResponse(cancelled))
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	if err := l.leaveService.Delete(r.Context(), requestID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted", nil)
}

// UpdateReason implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateReason(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateReasonRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateReason decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	updated, err := l.leaveService.UpdateReason(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated", leave.NewRequestResponse(updated))
}

// GetAllowance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetAllowance(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("person_id")
	categoryID := r.URL.Query().Get("category_id")
	if personID == "" || categoryID == "" {
		response.BadRequest(w, "person_id and category_id are required", nil)
		return
	}

	year := parseIntQuery(r, "year", time.Now().Year())

	allowance, err := l.leaveService.RemainingAllowance(r.Context(), personID, categoryID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewAllowanceResponse(allowance))
}

// CheckAvailability implements LeaveHandler.
func (l *LeaveHandlerImpl) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "id")
	if personID == "" {
		response.BadRequest(w, "Person ID is required", nil)
		return
	}

	dateStr := r.URL.Query().Get("date")
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.BadRequest(w, "date must be a valid date (YYYY-MM-DD)", nil)
		return
	}

	free, err := l.leaveService.CanTakeLeaveOn(r.Context(), personID, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"person_id": personID,
		"date":      dateStr,
		"available": free,
	})
}

// parseRequestFilter builds the list filter from query parameters. The
// start_from/end_until pair selects requests whose range falls inside a
// reporting period.
func parseRequestFilter(r *http.Request) (leave.RequestFilter, error) {
	filter := leave.RequestFilter{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", 20),
	}

	q := r.URL.Query()
	if v := q.Get("person_id"); v != "" {
		filter.PersonID = &v
	}
	if v := q.Get("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := q.Get("status"); v != "" {
		status := leave.RequestStatus(v)
		filter.Status = &status
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("year must be an integer")
		}
		filter.Year = &year
	}
	if v := q.Get("start_from"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("start_from must be a valid date (YYYY-MM-DD)")
		}
		filter.StartFrom = &d
	}
	if v := q.Get("end_until"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("end_until must be a valid date (YYYY-MM-DD)")
		}
		filter.EndUntil = &d
	}
	return filter, nil
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

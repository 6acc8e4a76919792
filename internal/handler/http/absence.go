package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/absence"
	"github.com/atlashr/personnel-backend-go/internal/handler/http/response"
	absenceservice "github.com/atlashr/personnel-backend-go/internal/service/absence"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	CreateRecord(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	ValidateRecord(w http.ResponseWriter, r *http.Request)
	RejectRecord(w http.ResponseWriter, r *http.Request)
	CancelRecord(w http.ResponseWriter, r *http.Request)
	DeleteRecord(w http.ResponseWriter, r *http.Request)
	GetRemaining(w http.ResponseWriter, r *http.Request)
	CheckAbsentOn(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	absenceService *absenceservice.RecordService
}

func NewAbsenceHandler(absenceService *absenceservice.RecordService) AbsenceHandler {
	return &AbsenceHandlerImpl{absenceService: absenceService}
}

// CreateRecord implements AbsenceHandler.
func (a *AbsenceHandlerImpl) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req absence.CreateRecordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRecord decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := a.absenceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence declared successfully", absence.NewRecordResponse(created))
}

// GetRecord implements AbsenceHandler.
func (a *AbsenceHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	record, err := a.absenceService.Get(r.Context(), recordID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absence.NewRecordResponse(record))
}

// ListRecords implements AbsenceHandler.
func (a *AbsenceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	records, total, err := a.absenceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, absence.NewRecordResponses(records), &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages(total, filter.Limit),
	})
}

// parseRecordFilter builds the list filter from query parameters. The
// date_from/date_to pair selects records inside a reporting period.
func parseRecordFilter(r *http.Request) (absence.RecordFilter, error) {
	filter := absence.RecordFilter{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", 20),
	}

	q := r.URL.Query()
	if v := q.Get("person_id"); v != "" {
		filter.PersonID = &v
	}
	if v := q.Get("type_id"); v != "" {
		filter.TypeID = &v
	}
	if v := q.Get("status"); v != "" {
		status := absence.Status(v)
		filter.Status = &status
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("year must be an integer")
		}
		filter.Year = &year
	}
	if v := q.Get("date_from"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("date_from must be a valid date (YYYY-MM-DD)")
		}
		filter.DateFrom = &d
	}
	if v := q.Get("date_to"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("date_to must be a valid date (YYYY-MM-DD)")
		}
		filter.DateTo = &d
	}
	return filter, nil
}

// ValidateRecord implements AbsenceHandler.
func (a *AbsenceHandlerImpl) ValidateRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")

	var body struct {
		ValidatorID string `json:"validator_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("ValidateRecord decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if body.ValidatorID == "" {
		response.BadRequest(w, "validator_id is required", nil)
		return
	}

	validated, err := a.absenceService.Validate(r.Context(), recordID, body.ValidatorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence validated successfully", absence.NewRecordResponse(validated))
}

// RejectRecord implements AbsenceHandler.
func (a *AbsenceHandlerImpl) RejectRecord(w http.ResponseWriter, r *http.Request) {
	var req absence.RejectRecordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRecord decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RecordID = chi.URLParam(r, "id")

	rejected, err := a.absenceService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence rejected", absence.NewRecordResponse(rejected))
}

// CancelRecord implements AbsenceHandler.
func (a *AbsenceHandlerImpl) CancelRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	cancelled, err := a.absenceService.Cancel(r.Context(), recordID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence cancelled", absence.NewRecordResponse(cancelled))
}

// DeleteRecord implements AbsenceHandler.
func (a *AbsenceHandlerImpl) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := a.absenceService.Delete(r.Context(), recordID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence deleted", nil)
}

// CheckAbsentOn implements AbsenceHandler.
func (a *AbsenceHandlerImpl) CheckAbsentOn(w http.ResponseWriter, r *http.Request) {
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

	absent, err := a.absenceService.IsAbsentOn(r.Context(), personID, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"person_id": personID,
		"date":      dateStr,
		"absent":    absent,
	})
}

// GetRemaining implements AbsenceHandler.
func (a *AbsenceHandlerImpl) GetRemaining(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("person_id")
	typeID := r.URL.Query().Get("type_id")
	if personID == "" || typeID == "" {
		response.BadRequest(w, "person_id and type_id are required", nil)
		return
	}

	year := parseIntQuery(r, "year", time.Now().Year())

	remaining, err := a.absenceService.Remaining(r.Context(), personID, typeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, remaining)
}

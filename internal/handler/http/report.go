package http

import (
	"net/http"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/handler/http/response"
	reportservice "github.com/atlashr/personnel-backend-go/internal/service/report"
)

type ReportHandler interface {
	LeaveStatistics(w http.ResponseWriter, r *http.Request)
	AbsenceStatistics(w http.ResponseWriter, r *http.Request)
	StartingSoon(w http.ResponseWriter, r *http.Request)
	CurrentlyOnLeave(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService *reportservice.Service
}

func NewReportHandler(reportService *reportservice.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// LeaveStatistics implements ReportHandler.
func (h *ReportHandlerImpl) LeaveStatistics(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r, "year", time.Now().Year())

	stats, err := h.reportService.LeaveStatistics(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// AbsenceStatistics implements ReportHandler.
func (h *ReportHandlerImpl) AbsenceStatistics(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r, "year", time.Now().Year())

	stats, err := h.reportService.AbsenceStatistics(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// StartingSoon implements ReportHandler.
func (h *ReportHandlerImpl) StartingSoon(w http.ResponseWriter, r *http.Request) {
	days := parseIntQuery(r, "days", 7)

	requests, err := h.reportService.StartingSoon(r.Context(), days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewRequestResponses(requests))
}

// CurrentlyOnLeave implements ReportHandler.
func (h *ReportHandlerImpl) CurrentlyOnLeave(w http.ResponseWriter, r *http.Request) {
	requests, err := h.reportService.CurrentlyOnLeave(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewRequestResponses(requests))
}

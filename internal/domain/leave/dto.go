package leave

import (
	"time"

	"github.com/atlashr/personnel-backend-go/internal/pkg/validator"
)

type CreateRequestRequest struct {
	PersonID   string  `json:"person_id"`
	CategoryID string  `json:"category_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_id",
			Message: "person_id is required",
		})
	}

	if validator.IsEmpty(r.CategoryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "category_id",
			Message: "category_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveRequestRequest struct {
	RequestID  string `json:"request_id"`
	ApproverID string `json:"approver_id"`
}

func (r *ApproveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{
			Field:   "approver_id",
			Message: "approver_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequestRequest struct {
	RequestID  string `json:"request_id"`
	ApproverID string `json:"approver_id"`
	Reason     string `json:"reason"`
}

func (r *RejectRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{
			Field:   "approver_id",
			Message: "approver_id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateReasonRequest struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

func (r *UpdateReasonRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RequestFilter narrows list queries; nil fields are ignored.
type RequestFilter struct {
	PersonID   *string
	CategoryID *string
	Status     *RequestStatus
	Year       *int
	StartFrom  *time.Time
	EndUntil   *time.Time
	Page       int
	Limit      int
}

// UpdateRequest is the partial-update shape the repository applies; nil
// fields are left untouched.
type UpdateRequest struct {
	ID                string
	Reason            *string
	Status            *RequestStatus
	ApproverID        *string
	DecisionTimestamp *time.Time
	RejectionReason   *string
	Note              *string
}

type RequestResponse struct {
	ID         string `json:"id"`
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name,omitempty"`

	CategoryID   string `json:"category_id"`
	CategoryCode string `json:"category_code,omitempty"`

	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RequestedDays int    `json:"requested_days"`

	Reason *string `json:"reason,omitempty"`
	Status string  `json:"status"`

	ApproverID        *string    `json:"approver_id,omitempty"`
	DecisionTimestamp *time.Time `json:"decision_timestamp,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
	Note              *string    `json:"note,omitempty"`

	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:                r.ID,
		PersonID:          r.PersonID,
		CategoryID:        r.CategoryID,
		StartDate:         r.StartDate.Format("2006-01-02"),
		EndDate:           r.EndDate.Format("2006-01-02"),
		RequestedDays:     r.RequestedDays,
		Reason:            r.Reason,
		Status:            string(r.Status),
		ApproverID:        r.ApproverID,
		DecisionTimestamp: r.DecisionTimestamp,
		RejectionReason:   r.RejectionReason,
		Note:              r.Note,
		Year:              r.Year,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.PersonName != nil {
		resp.PersonName = *r.PersonName
	}
	if r.CategoryCode != nil {
		resp.CategoryCode = *r.CategoryCode
	}
	return resp
}

func NewRequestResponses(requests []Request) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, NewRequestResponse(r))
	}
	return responses
}

type AllowanceResponse struct {
	PersonID   string `json:"person_id"`
	CategoryID string `json:"category_id"`
	Year       int    `json:"year"`
	UsedDays   int    `json:"used_days"`
	Remaining  *int   `json:"remaining,omitempty"`
	Unlimited  bool   `json:"unlimited"`
}

func NewAllowanceResponse(a Allowance) AllowanceResponse {
	resp := AllowanceResponse{
		PersonID:   a.PersonID,
		CategoryID: a.CategoryID,
		Year:       a.Year,
		UsedDays:   a.UsedDays,
		Unlimited:  a.Unlimited,
	}
	if !a.Unlimited {
		remaining := a.Remaining
		resp.Remaining = &remaining
	}
	return resp
}

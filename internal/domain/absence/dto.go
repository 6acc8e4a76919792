package absence

import (
	"time"

	"github.com/atlashr/personnel-backend-go/internal/pkg/validator"
)

type CreateRecordRequest struct {
	PersonID string  `json:"person_id"`
	TypeID   string  `json:"type_id"`
	Date     string  `json:"date"`
	Duration string  `json:"duration"`
	Reason   *string `json:"reason,omitempty"`
	ProofURL *string `json:"proof_url,omitempty"`
}

func (r *CreateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_id",
			Message: "person_id is required",
		})
	}

	if validator.IsEmpty(r.TypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "type_id",
			Message: "type_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a valid date (YYYY-MM-DD)",
		})
	}

	if !validator.IsInSlice(r.Duration, []string{
		string(DurationFullDay), string(DurationMorning), string(DurationAfternoon),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "duration",
			Message: "duration must be one of full_day, morning, afternoon",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRecordRequest struct {
	RecordID    string `json:"record_id"`
	ValidatorID string `json:"validator_id"`
	Reason      string `json:"reason"`
}

func (r *RejectRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}

	if validator.IsEmpty(r.ValidatorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "validator_id",
			Message: "validator_id is required",
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

// RecordFilter narrows list queries; nil fields are ignored.
type RecordFilter struct {
	PersonID *string
	TypeID   *string
	Status   *Status
	Year     *int
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// UpdateRecord is the partial-update shape the repository applies.
type UpdateRecord struct {
	ID              string
	Status          *Status
	ValidatorID     *string
	RejectionReason *string
}

type RecordResponse struct {
	ID         string `json:"id"`
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name,omitempty"`

	TypeID   string `json:"type_id"`
	TypeCode string `json:"type_code,omitempty"`

	Date     string `json:"date"`
	Duration string `json:"duration"`

	Reason   *string `json:"reason,omitempty"`
	ProofURL *string `json:"proof_url,omitempty"`

	Status          string  `json:"status"`
	ValidatorID     *string `json:"validator_id,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	Year       int       `json:"year"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:              r.ID,
		PersonID:        r.PersonID,
		TypeID:          r.TypeID,
		Date:            r.Date.Format("2006-01-02"),
		Duration:        string(r.Duration),
		Reason:          r.Reason,
		ProofURL:        r.ProofURL,
		Status:          string(r.Status),
		ValidatorID:     r.ValidatorID,
		RejectionReason: r.RejectionReason,
		Year:            r.Year,
		CreatedAt:       r.CreatedAt,
		ModifiedAt:      r.ModifiedAt,
	}
	if r.PersonName != nil {
		resp.PersonName = *r.PersonName
	}
	if r.TypeCode != nil {
		resp.TypeCode = *r.TypeCode
	}
	return resp
}

func NewRecordResponses(records []Record) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, NewRecordResponse(r))
	}
	return responses
}

type RemainingResponse struct {
	PersonID  string `json:"person_id"`
	TypeID    string `json:"type_id"`
	Year      int    `json:"year"`
	Used      int    `json:"used"`
	Remaining *int   `json:"remaining,omitempty"`
	Unlimited bool   `json:"unlimited"`
}

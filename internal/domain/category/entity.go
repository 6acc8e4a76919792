package category

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// KnownLabel enumerates the label codes the registry ships with. Anything
// else is carried as free text in Label.Custom.
type KnownLabel string

const (
	LabelAnnualLeave    KnownLabel = "annual_leave"
	LabelSickLeave      KnownLabel = "sick_leave"
	LabelMaternityLeave KnownLabel = "maternity_leave"
	LabelPaternityLeave KnownLabel = "paternity_leave"
	LabelUnpaidLeave    KnownLabel = "unpaid_leave"
	LabelTraining       KnownLabel = "training"
	LabelFamilyEvent    KnownLabel = "family_event"
	LabelMedical        KnownLabel = "medical"
	LabelOther          KnownLabel = "other"
)

// Label is a tagged variant: either a known enumerated label or a free-form
// custom one. Quota and overlap logic never inspect it; it exists for
// display and reporting only.
type Label struct {
	Known  KnownLabel `json:"known,omitempty"`
	Custom string     `json:"custom,omitempty"`
}

func KnownLabelOf(k KnownLabel) Label { return Label{Known: k} }
func CustomLabel(text string) Label   { return Label{Custom: text} }

func (l Label) IsCustom() bool { return l.Known == "" && l.Custom != "" }

func (l Label) String() string {
	if l.IsCustom() {
		return l.Custom
	}
	return string(l.Known)
}

// Value implements driver.Valuer for database storage
func (l Label) Value() (driver.Value, error) {
	if l.Known == "" && l.Custom == "" {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *Label) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan Label: invalid type")
	}

	return json.Unmarshal(bytes, l)
}

// LeaveCategory is reference data for planned, multi-day leave. Read-only to
// this engine; AnnualAllotment nil means unbounded.
type LeaveCategory struct {
	ID              string
	Code            string
	Label           Label
	AnnualAllotment *int
	Reportable      bool
	RequiresProof   bool
	Description     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unbounded reports whether the category has no annual ceiling.
func (c LeaveCategory) Unbounded() bool { return c.AnnualAllotment == nil }

// AbsenceType is reference data for ad hoc single-day absences.
// AnnualCeiling nil means no ceiling.
type AbsenceType struct {
	ID            string
	Code          string
	Label         Label
	AnnualCeiling *int
	Payable       bool
	RequiresProof bool
	Color         *string
	Description   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t AbsenceType) Unbounded() bool { return t.AnnualCeiling == nil }

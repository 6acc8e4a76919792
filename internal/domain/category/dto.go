package category

type LeaveCategoryResponse struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	Label           string  `json:"label"`
	CustomLabel     bool    `json:"custom_label"`
	AnnualAllotment *int    `json:"annual_allotment,omitempty"`
	Unlimited       bool    `json:"unlimited"`
	Reportable      bool    `json:"reportable"`
	RequiresProof   bool    `json:"requires_proof"`
	Description     *string `json:"description,omitempty"`
}

func NewLeaveCategoryResponse(c LeaveCategory) LeaveCategoryResponse {
	return LeaveCategoryResponse{
		ID:              c.ID,
		Code:            c.Code,
		Label:           c.Label.String(),
		CustomLabel:     c.Label.IsCustom(),
		AnnualAllotment: c.AnnualAllotment,
		Unlimited:       c.Unbounded(),
		Reportable:      c.Reportable,
		RequiresProof:   c.RequiresProof,
		Description:     c.Description,
	}
}

func NewLeaveCategoryResponses(categories []LeaveCategory) []LeaveCategoryResponse {
	responses := make([]LeaveCategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, NewLeaveCategoryResponse(c))
	}
	return responses
}

type AbsenceTypeResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Label         string  `json:"label"`
	CustomLabel   bool    `json:"custom_label"`
	AnnualCeiling *int    `json:"annual_ceiling,omitempty"`
	Unlimited     bool    `json:"unlimited"`
	Payable       bool    `json:"payable"`
	RequiresProof bool    `json:"requires_proof"`
	Color         *string `json:"color,omitempty"`
	Description   *string `json:"description,omitempty"`
}

func NewAbsenceTypeResponse(t AbsenceType) AbsenceTypeResponse {
	return AbsenceTypeResponse{
		ID:            t.ID,
		Code:          t.Code,
		Label:         t.Label.String(),
		CustomLabel:   t.Label.IsCustom(),
		AnnualCeiling: t.AnnualCeiling,
		Unlimited:     t.Unbounded(),
		Payable:       t.Payable,
		RequiresProof: t.RequiresProof,
		Color:         t.Color,
		Description:   t.Description,
	}
}

func NewAbsenceTypeResponses(types []AbsenceType) []AbsenceTypeResponse {
	responses := make([]AbsenceTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, NewAbsenceTypeResponse(t))
	}
	return responses
}

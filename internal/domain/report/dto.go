package report

// Statistics is the yearly aggregate over leave requests: request counts
// grouped by status (all statuses present, zero-filled) and by category
// code.
type Statistics struct {
	Year       int              `json:"year"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByCategory map[string]int64 `json:"by_category"`
}

// AbsenceStatistics is the same aggregate over absence records.
type AbsenceStatistics struct {
	Year     int              `json:"year"`
	ByStatus map[string]int64 `json:"by_status"`
	ByType   map[string]int64 `json:"by_type"`
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestFilter_Period(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/leaves?person_id=p1&start_from=2026-03-01&end_until=2026-03-31", nil)

	filter, err := parseRequestFilter(r)
	require.NoError(t, err)

	require.NotNil(t, filter.PersonID)
	assert.Equal(t, "p1", *filter.PersonID)
	require.NotNil(t, filter.StartFrom)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.StartFrom)
	require.NotNil(t, filter.EndUntil)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *filter.EndUntil)
}

func TestParseRequestFilter_Defaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)

	filter, err := parseRequestFilter(r)
	require.NoError(t, err)

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Nil(t, filter.PersonID)
	assert.Nil(t, filter.StartFrom)
	assert.Nil(t, filter.EndUntil)
}

func TestParseRequestFilter_StatusAndYear(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/leaves?status=approved&year=2026&page=2&limit=50", nil)

	filter, err := parseRequestFilter(r)
	require.NoError(t, err)

	require.NotNil(t, filter.Status)
	assert.Equal(t, leave.StatusApproved, *filter.Status)
	require.NotNil(t, filter.Year)
	assert.Equal(t, 2026, *filter.Year)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 50, filter.Limit)
}

func TestParseRequestFilter_BadDate(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/leaves?start_from=03/01/2026", nil)

	_, err := parseRequestFilter(r)
	assert.Error(t, err)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/leaves?end_until=not-a-date", nil)

	_, err = parseRequestFilter(r)
	assert.Error(t, err)
}

func TestParseRecordFilter_Period(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/absences?type_id=t1&date_from=2026-03-01&date_to=2026-03-31", nil)

	filter, err := parseRecordFilter(r)
	require.NoError(t, err)

	require.NotNil(t, filter.TypeID)
	assert.Equal(t, "t1", *filter.TypeID)
	require.NotNil(t, filter.DateFrom)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.DateFrom)
	require.NotNil(t, filter.DateTo)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *filter.DateTo)
}

func TestParseRecordFilter_BadDate(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/absences?date_from=2026-13-01", nil)

	_, err := parseRecordFilter(r)
	assert.Error(t, err)
}

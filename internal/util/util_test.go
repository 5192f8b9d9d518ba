package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/dossier/pkg/api"
)

func TestReportCompletions(t *testing.T) {
	reports := []api.Report{
		{ID: 1, Title: "Quantum Computing in 2025"},
		{ID: 2, Title: "Climate policy"},
		{ID: 12, Title: "Quarterly earnings"},
	}

	assert.Len(t, ReportCompletions("", reports, 0), 3)
	assert.Equal(t, []string{"1\tQuantum Computing in 2025"}, ReportCompletions("quantum", reports, 0))
	assert.Len(t, ReportCompletions("", reports, 2), 2)
	assert.Empty(t, ReportCompletions("zzz", reports, 0))
}

func TestParseTimeExpr(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2h", now.Add(-2 * time.Hour)},
		{"3d", now.AddDate(0, 0, -3)},
		{"1w", now.AddDate(0, 0, -7)},
		{"1mo", now.AddDate(0, -1, 0)},
		{"2025-05-01", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-05-01T08:30", time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseTimeExpr(tc.in, now)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %s want %s", tc.in, got, tc.want)
	}
	_, err := parseTimeExpr("yesterday", now)
	assert.Error(t, err)
	_, err = parseTimeExpr("xd", now)
	assert.Error(t, err)
}

func TestParseTimeRangeSwaps(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	s, u, err := ParseTimeRange("1d", "3d", now)
	require.NoError(t, err)
	assert.True(t, s.Before(u))

	_, _, err = ParseTimeRange("bogus", "", now)
	assert.ErrorContains(t, err, "invalid --since")
}

func TestFilterByCreated(t *testing.T) {
	at := func(s string) api.Timestamp { return api.ParseTimestamp(s) }
	reports := []api.Report{
		{ID: 1, CreatedAt: at("2025-04-01 10:00:00")},
		{ID: 2, CreatedAt: at("2025-05-02 10:00:00")},
		{ID: 3, CreatedAt: at("garbage")},
	}

	assert.Len(t, FilterByCreated(reports, time.Time{}, time.Time{}), 3)

	got := FilterByCreated(reports, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got = FilterByCreated(reports, time.Time{}, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

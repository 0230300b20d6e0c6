package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobListDecoding(t *testing.T) {
	t.Run("live spelling with quoted numbers", func(t *testing.T) {
		var list JobList
		require.NoError(t, json.Unmarshal([]byte(`{
			"jobs": [{"id": 3, "title": "Go Dev", "salary_range": "55000.50", "created_at": "2024-05-01T10:00:00Z"}],
			"totolJobs": "21",
			"currentPage": "2",
			"limit": 10
		}`), &list))

		assert.Equal(t, 21, list.TotalJobs)
		assert.Equal(t, FlexInt(2), list.CurrentPage)
		assert.Equal(t, FlexInt(10), list.Limit)
		require.Len(t, list.Jobs, 1)
		assert.Equal(t, "55000.5", list.Jobs[0].SalaryRange.String())
		assert.Equal(t, "2024-05-01", list.Jobs[0].PostedOn())
	})

	t.Run("documented spelling", func(t *testing.T) {
		var list JobList
		require.NoError(t, json.Unmarshal([]byte(`{"jobs": [], "totalJobsCount": 4}`), &list))
		assert.Equal(t, 4, list.TotalJobs)
	})

	t.Run("missing count is zero", func(t *testing.T) {
		var list JobList
		require.NoError(t, json.Unmarshal([]byte(`{"jobs": null}`), &list))
		assert.Zero(t, list.TotalJobs)
		assert.Empty(t, list.Jobs)
	})

	t.Run("non-numeric salary is an error", func(t *testing.T) {
		var job Job
		assert.Error(t, json.Unmarshal([]byte(`{"salary_range": "lots"}`), &job))
	})
}

func TestApplicationDisplayStatus(t *testing.T) {
	assert.Equal(t, "Applied", Application{}.DisplayStatus())
	assert.Equal(t, "Rejected", Application{Status: "Rejected"}.DisplayStatus())
}

func TestFieldErrorField(t *testing.T) {
	var body APIErrorBody
	require.NoError(t, json.Unmarshal([]byte(`{"errors":[{"path":["title"]},{"path":["tags",0]},{"path":[3]},{"path":[]}]}`), &body))
	require.Len(t, body.Errors, 4)

	assert.Equal(t, "title", body.Errors[0].Field())
	assert.Equal(t, "tags", body.Errors[1].Field())
	assert.Equal(t, "3", body.Errors[2].Field())
	assert.Equal(t, "", body.Errors[3].Field())
}

package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	rows    map[string][]map[string]any
	err     error
	queries int
}

func (s *stubReader) RunRead(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	s.queries++
	if s.err != nil {
		return nil, s.err
	}
	if params["project"] != "demo" {
		return nil, nil
	}
	for marker, rows := range s.rows {
		if strings.Contains(query, marker) {
			return rows, nil
		}
	}
	return nil, nil
}

func TestInventorySummary(t *testing.T) {
	reader := &stubReader{rows: map[string][]map[string]any{
		"count(DISTINCT b)": {{"instances": int64(3), "buckets": int64(2)}},
		"i.status":          {{"value": "RUNNING", "total": int64(2)}, {"value": "UNKNOWN", "total": int64(1)}},
		"b.location":        {{"value": "US", "total": int64(2)}},
		"last_seen_run_id":  {{"run_id": "r2"}, {"run_id": "r1"}},
	}}

	inv, err := NewInventoryReader(reader).Summary(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, int64(3), inv.Instances)
	assert.Equal(t, int64(2), inv.Buckets)
	assert.Equal(t, map[string]int64{"RUNNING": 2, "UNKNOWN": 1}, inv.InstanceStatus)
	assert.Equal(t, map[string]int64{"US": 2}, inv.BucketLocations)
	assert.Equal(t, []string{"r1", "r2"}, inv.LastSeenRunIDs)
}

func TestInventorySummaryUnknownProject(t *testing.T) {
	inv, err := NewInventoryReader(&stubReader{}).Summary(context.Background(), "other")
	require.NoError(t, err)
	assert.Zero(t, inv.Instances)
	assert.Zero(t, inv.Buckets)
	assert.Empty(t, inv.InstanceStatus)
}

func TestInventorySummaryErrors(t *testing.T) {
	_, err := NewInventoryReader(nil).Summary(context.Background(), "demo")
	assert.Error(t, err)

	_, err = NewInventoryReader(&stubReader{}).Summary(context.Background(), "")
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = NewInventoryReader(&stubReader{err: boom}).Summary(context.Background(), "demo")
	assert.ErrorIs(t, err, boom)
}

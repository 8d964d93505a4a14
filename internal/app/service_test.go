package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gcp2neo/internal/domain"
	"gcp2neo/internal/gcp"
	"gcp2neo/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonMarshal(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

// blockingSource 在拉取实例时阻塞，用于验证并发采集被拒绝。
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSource) FetchInstances(context.Context) ([]domain.Instance, error) {
	close(b.entered)
	<-b.release
	return nil, nil
}

func (b *blockingSource) FetchBuckets(context.Context) ([]domain.Bucket, error) {
	return nil, nil
}

type stubInventory struct {
	project string
}

func (s *stubInventory) Summary(_ context.Context, projectID string) (graph.Inventory, error) {
	s.project = projectID
	return graph.Inventory{ProjectID: projectID, Instances: 4}, nil
}

func testConfig() Config {
	cfg := Config{}
	cfg.GCP.ProjectID = "demo"
	return cfg
}

func TestServiceRejectsOverlappingRuns(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{}), release: make(chan struct{})}
	svc, err := NewService(testConfig(), fixedFlow(src, &recordingWriter{}), nil, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Ingest(context.Background())
		done <- err
	}()
	<-src.entered

	_, err = svc.Ingest(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(src.release)
	require.NoError(t, <-done)

	report, ok := svc.LastReport()
	require.True(t, ok)
	assert.Equal(t, "run-1", report.RunID)
}

// panicOnceSource 第一次拉取实例时 panic。
type panicOnceSource struct {
	calls int
}

func (p *panicOnceSource) FetchInstances(context.Context) ([]domain.Instance, error) {
	p.calls++
	if p.calls == 1 {
		panic("list instances")
	}
	return nil, nil
}

func (p *panicOnceSource) FetchBuckets(context.Context) ([]domain.Bucket, error) {
	return nil, nil
}

func TestServiceIngestAfterRecoveredPanic(t *testing.T) {
	svc, err := NewService(testConfig(), fixedFlow(&panicOnceSource{}, &recordingWriter{}), nil, nil)
	require.NoError(t, err)

	func() {
		defer func() {
			require.NotNil(t, recover())
		}()
		_, _ = svc.Ingest(context.Background())
	}()
	_, ok := svc.LastReport()
	assert.False(t, ok)

	_, err = svc.Ingest(context.Background())
	require.NotErrorIs(t, err, ErrRunInProgress)
	require.NoError(t, err)
	_, ok = svc.LastReport()
	assert.True(t, ok)
}

func TestServiceSyncReturnsPartialFailure(t *testing.T) {
	src := &gcp.StaticSource{BucketErr: errors.New("denied")}
	svc, err := NewService(testConfig(), fixedFlow(src, &recordingWriter{}), nil, nil)
	require.NoError(t, err)

	assert.Error(t, svc.Sync(context.Background()))
}

func TestServiceInventoryDefaultsToConfiguredProject(t *testing.T) {
	inv := &stubInventory{}
	svc, err := NewService(testConfig(), fixedFlow(&gcp.StaticSource{}, &recordingWriter{}), inv, nil)
	require.NoError(t, err)

	got, err := svc.Inventory(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "demo", inv.project)
	assert.Equal(t, int64(4), got.Instances)

	_, err = svc.Inventory(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, "other", inv.project)
}

func TestServiceWithoutInventory(t *testing.T) {
	svc, err := NewService(testConfig(), fixedFlow(&gcp.StaticSource{}, &recordingWriter{}), nil, nil)
	require.NoError(t, err)

	_, err = svc.Inventory(context.Background(), "")
	assert.Error(t, err)

	_, ok := svc.LastReport()
	assert.False(t, ok)
}

func TestNewServiceRequiresFlow(t *testing.T) {
	_, err := NewService(testConfig(), nil, nil, nil)
	assert.Error(t, err)
}

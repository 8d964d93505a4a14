package gcp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gcp2neo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeGCP 模拟 compute 与 storage 的列表接口，按 pageToken 返回分页。
func newFakeGCP(t *testing.T, instancePages, bucketPages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("pageToken")
		var pages map[string]string
		switch {
		case strings.HasSuffix(r.URL.Path, "/projects/demo/aggregated/instances"):
			pages = instancePages
		case strings.HasSuffix(r.URL.Path, "/b"):
			if r.URL.Query().Get("project") != "demo" {
				http.Error(w, "wrong project", http.StatusBadRequest)
				return
			}
			pages = bucketPages
		default:
			http.NotFound(w, r)
			return
		}
		body, ok := pages[token]
		if !ok {
			http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, creds CredentialProvider) *Client {
	t.Helper()
	client, err := NewClient(Config{
		ProjectID:       "demo",
		Credentials:     creds,
		ComputeEndpoint: srv.URL + "/compute/v1/",
		StorageEndpoint: srv.URL + "/storage/v1/",
	})
	require.NoError(t, err)
	return client
}

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient(Config{Credentials: NoCredentials{}})
	assert.Error(t, err)

	_, err = NewClient(Config{ProjectID: "demo"})
	assert.Error(t, err)
}

func TestClientFetchInstancesAcrossPages(t *testing.T) {
	srv := newFakeGCP(t, map[string]string{
		"": `{"items":{
			"zones/zone-a":{"instances":[{"id":"1","name":"vm-1","status":"RUNNING"}]},
			"zones/zone-b":{"warning":{"code":"NO_RESULTS_ON_PAGE"}}
		},"nextPageToken":"t2"}`,
		"t2": `{"items":{},"nextPageToken":"t3"}`,
		"t3": `{"items":{"zones/zone-b":{"instances":[{"id":"2","name":"vm-2"}]}}}`,
	}, nil)
	client := newTestClient(t, srv, NoCredentials{})

	got, err := client.FetchInstances(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1", *got[0].InstanceID)
	assert.Equal(t, "zones/zone-a", *got[0].Zone)
	assert.Equal(t, "RUNNING", *got[0].Status)

	assert.Equal(t, "2", *got[1].InstanceID)
	assert.Equal(t, "zones/zone-b", *got[1].Zone)
	assert.Nil(t, got[1].Status)
}

func TestClientFetchBucketsAcrossPages(t *testing.T) {
	srv := newFakeGCP(t, nil, map[string]string{
		"":  `{"kind":"storage#buckets","items":[{"name":"logs","location":"US","storageClass":"STANDARD"}],"nextPageToken":"n"}`,
		"n": `{"kind":"storage#buckets","items":[{"name":"archive","location":"EU"}]}`,
	})
	client := newTestClient(t, srv, NoCredentials{})

	got, err := client.FetchBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "logs", *got[0].Name)
	assert.Equal(t, "STANDARD", *got[0].StorageClass)
	assert.Equal(t, "archive", *got[1].Name)
	assert.Nil(t, got[1].StorageClass)
}

func TestClientTransportError(t *testing.T) {
	srv := newFakeGCP(t, map[string]string{
		"": `{"items":{"zones/zone-a":{"instances":[{"id":"1"}]}},"nextPageToken":"missing"}`,
	}, nil)
	client := newTestClient(t, srv, NoCredentials{})

	got, err := client.FetchInstances(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Nil(t, got)
}

func TestClientAuthenticationError(t *testing.T) {
	srv := newFakeGCP(t, nil, nil)
	creds := &KeyFileCredentials{Path: filepath.Join(t.TempDir(), "missing.json")}
	client := newTestClient(t, srv, creds)

	_, err := client.FetchBuckets(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthentication)

	_, err = client.FetchInstances(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestKeyFileCredentialsRejectsEmptyPath(t *testing.T) {
	_, err := (&KeyFileCredentials{}).ClientOptions(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestStaticSource(t *testing.T) {
	id := "9"
	src := &StaticSource{Instances: []domain.Instance{{InstanceID: &id}}, BucketErr: domain.ErrTransport}

	instances, err := src.FetchInstances(context.Background())
	require.NoError(t, err)
	assert.Len(t, instances, 1)

	_, err = src.FetchBuckets(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

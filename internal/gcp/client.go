package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gcp2neo/internal/domain"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// Source 抽象 GCP 资源数据源。
type Source interface {
	FetchInstances(ctx context.Context) ([]domain.Instance, error)
	FetchBuckets(ctx context.Context) ([]domain.Bucket, error)
}

// StaticSource 用于测试或演示，直接返回内存中的记录。
type StaticSource struct {
	Instances   []domain.Instance
	Buckets     []domain.Bucket
	InstanceErr error
	BucketErr   error
}

func (s *StaticSource) FetchInstances(context.Context) ([]domain.Instance, error) {
	if s.InstanceErr != nil {
		return nil, s.InstanceErr
	}
	return s.Instances, nil
}

func (s *StaticSource) FetchBuckets(context.Context) ([]domain.Bucket, error) {
	if s.BucketErr != nil {
		return nil, s.BucketErr
	}
	return s.Buckets, nil
}

// Config 配置 GCP API 客户端。
type Config struct {
	ProjectID       string
	Credentials     CredentialProvider
	ComputeEndpoint string
	StorageEndpoint string
}

// Client 通过 compute/v1 与 storage/v1 接口列举项目资源。
// API service 在首次调用时按需创建，凭证错误只影响发起调用的那一类资源。
type Client struct {
	projectID       string
	credentials     CredentialProvider
	computeEndpoint string
	storageEndpoint string

	compute *compute.Service
	storage *storage.Service
}

// NewClient 校验配置并创建 Client。
func NewClient(cfg Config) (*Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("gcp project id 不能为空")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("必须提供 gcp credential provider")
	}
	return &Client{
		projectID:       projectID,
		credentials:     cfg.Credentials,
		computeEndpoint: cfg.ComputeEndpoint,
		storageEndpoint: cfg.StorageEndpoint,
	}, nil
}

// ProjectID 返回采集的项目 ID。
func (c *Client) ProjectID() string {
	return c.projectID
}

// FetchInstances 拉取全部实例分页并规范化。
func (c *Client) FetchInstances(ctx context.Context) ([]domain.Instance, error) {
	raws, err := FetchAll(ctx, c.ListInstancePage)
	if err != nil {
		return nil, err
	}
	return NormalizeInstances(raws), nil
}

// FetchBuckets 拉取全部存储桶分页并规范化。
func (c *Client) FetchBuckets(ctx context.Context) ([]domain.Bucket, error) {
	raws, err := FetchAll(ctx, c.ListBucketPage)
	if err != nil {
		return nil, err
	}
	return NormalizeBuckets(raws), nil
}

// ListInstancePage 调用 instances.aggregatedList 并展开 zone 分组。
func (c *Client) ListInstancePage(ctx context.Context, cursor string) (Page[RawInstance], error) {
	svc, err := c.computeService(ctx)
	if err != nil {
		return Page[RawInstance]{}, err
	}
	call := svc.Instances.AggregatedList(c.projectID).Context(ctx)
	if cursor != "" {
		call = call.PageToken(cursor)
	}
	resp, err := call.Do()
	if err != nil {
		return Page[RawInstance]{}, fmt.Errorf("%w: instances.aggregatedList project=%s: %w", domain.ErrTransport, c.projectID, err)
	}
	return Page[RawInstance]{Items: FlattenAggregated(resp.Items), NextCursor: resp.NextPageToken}, nil
}

// ListBucketPage 调用 buckets.list。
func (c *Client) ListBucketPage(ctx context.Context, cursor string) (Page[*storage.Bucket], error) {
	svc, err := c.storageService(ctx)
	if err != nil {
		return Page[*storage.Bucket]{}, err
	}
	call := svc.Buckets.List(c.projectID).Context(ctx)
	if cursor != "" {
		call = call.PageToken(cursor)
	}
	resp, err := call.Do()
	if err != nil {
		return Page[*storage.Bucket]{}, fmt.Errorf("%w: buckets.list project=%s: %w", domain.ErrTransport, c.projectID, err)
	}
	return Page[*storage.Bucket]{Items: resp.Items, NextCursor: resp.NextPageToken}, nil
}

func (c *Client) computeService(ctx context.Context) (*compute.Service, error) {
	if c.compute != nil {
		return c.compute, nil
	}
	opts, err := c.clientOptions(ctx, c.computeEndpoint)
	if err != nil {
		return nil, err
	}
	svc, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: 创建 compute service: %w", domain.ErrAuthentication, err)
	}
	c.compute = svc
	return svc, nil
}

func (c *Client) storageService(ctx context.Context) (*storage.Service, error) {
	if c.storage != nil {
		return c.storage, nil
	}
	opts, err := c.clientOptions(ctx, c.storageEndpoint)
	if err != nil {
		return nil, err
	}
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: 创建 storage service: %w", domain.ErrAuthentication, err)
	}
	c.storage = svc
	return svc, nil
}

func (c *Client) clientOptions(ctx context.Context, endpoint string) ([]option.ClientOption, error) {
	opts, err := c.credentials.ClientOptions(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(endpoint) != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts, nil
}

package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gcp2neo/internal/domain"
	"golang.org/x/oauth2/google"
	compute "google.golang.org/api/compute/v1"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// DefaultScopes 是只读采集所需的最小权限。
var DefaultScopes = []string{compute.ComputeReadonlyScope, storage.DevstorageReadOnlyScope}

// CredentialProvider 为 GCP API 客户端提供认证选项。
type CredentialProvider interface {
	ClientOptions(ctx context.Context) ([]option.ClientOption, error)
}

// KeyFileCredentials 从 service account key 文件加载凭证。
type KeyFileCredentials struct {
	Path   string
	Scopes []string
}

// ClientOptions 读取并解析 key 文件，失败统一包装为 ErrAuthentication。
func (k *KeyFileCredentials) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	path := strings.TrimSpace(k.Path)
	if path == "" {
		return nil, fmt.Errorf("%w: 未配置凭证文件路径", domain.ErrAuthentication)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取 %s: %w", domain.ErrAuthentication, path, err)
	}
	scopes := k.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: 解析 %s: %w", domain.ErrAuthentication, path, err)
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}

// NoCredentials 不附带认证信息，用于模拟器或测试桩。
type NoCredentials struct{}

func (NoCredentials) ClientOptions(context.Context) ([]option.ClientOption, error) {
	return []option.ClientOption{option.WithoutAuthentication()}, nil
}

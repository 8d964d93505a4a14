package ioc

import (
	"gcp2neo/internal/app"
	"gcp2neo/internal/gcp"
)

// InitGCPSource 构建 GCP 资源数据源，凭证在首次调用接口时才加载。
func InitGCPSource(cfg app.Config) (gcp.Source, error) {
	var creds gcp.CredentialProvider = &gcp.KeyFileCredentials{Path: cfg.GCP.CredentialsFile}
	if cfg.GCP.WithoutAuth {
		creds = gcp.NoCredentials{}
	}
	client, err := gcp.NewClient(gcp.Config{
		ProjectID:       cfg.GCP.ProjectID,
		Credentials:     creds,
		ComputeEndpoint: cfg.GCP.ComputeEndpoint,
		StorageEndpoint: cfg.GCP.StorageEndpoint,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

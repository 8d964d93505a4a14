package gcp

import (
	"strconv"

	"gcp2neo/internal/domain"
	storage "google.golang.org/api/storage/v1"
)

// NormalizeInstance 将原始实例映射为固定字段，缺失字段为 nil。
func NormalizeInstance(raw RawInstance) domain.Instance {
	rec := domain.Instance{Zone: domain.Optional(raw.Zone)}
	inst := raw.Instance
	if inst == nil {
		return rec
	}
	if inst.Id != 0 {
		rec.InstanceID = domain.Optional(strconv.FormatUint(inst.Id, 10))
	}
	rec.Name = domain.Optional(inst.Name)
	rec.Status = domain.Optional(inst.Status)
	return rec
}

// NormalizeBucket 将原始存储桶映射为固定字段。
func NormalizeBucket(raw *storage.Bucket) domain.Bucket {
	if raw == nil {
		return domain.Bucket{}
	}
	return domain.Bucket{
		Name:         domain.Optional(raw.Name),
		Location:     domain.Optional(raw.Location),
		StorageClass: domain.Optional(raw.StorageClass),
	}
}

// NormalizeInstances 批量规范化实例。
func NormalizeInstances(raws []RawInstance) []domain.Instance {
	out := make([]domain.Instance, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeInstance(raw))
	}
	return out
}

// NormalizeBuckets 批量规范化存储桶。
func NormalizeBuckets(raws []*storage.Bucket) []domain.Bucket {
	out := make([]domain.Bucket, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeBucket(raw))
	}
	return out
}

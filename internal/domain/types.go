package domain

import "time"

// Instance 是规范化后的计算实例记录，nil 表示源数据缺失该字段。
type Instance struct {
	InstanceID *string `json:"instance_id"`
	Name       *string `json:"name"`
	Zone       *string `json:"zone"`
	Status     *string `json:"status"`
}

// Key 返回实例的 MERGE 主键，缺失时 ok 为 false。
func (i Instance) Key() (string, bool) {
	return deref(i.InstanceID)
}

// Bucket 是规范化后的存储桶记录。
type Bucket struct {
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	StorageClass *string `json:"storage_class"`
}

// Key 返回存储桶的 MERGE 主键（桶名）。
func (b Bucket) Key() (string, bool) {
	return deref(b.Name)
}

// RunInfo 描述一次采集运行，写入节点的 last_seen_run_id / updated_at。
type RunInfo struct {
	RunID     string    `json:"run_id"`
	ProjectID string    `json:"project_id"`
	StartedAt time.Time `json:"started_at"`
}

// Optional 将源字段的零值转换为缺失标记。
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value 把可选字段转换成 Cypher 参数，缺失时为 null。
func Value(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func deref(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

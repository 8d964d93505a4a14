package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Inventory 是图中某个项目下已写入资源的汇总。
type Inventory struct {
	ProjectID       string           `json:"project_id"`
	Instances       int64            `json:"instances"`
	Buckets         int64            `json:"buckets"`
	InstanceStatus  map[string]int64 `json:"instance_status"`
	BucketLocations map[string]int64 `json:"bucket_locations"`
	LastSeenRunIDs  []string         `json:"last_seen_run_ids"`
}

const unknownValue = "UNKNOWN"

const countQuery = `
MATCH (p:GCPProject {id: $project})
OPTIONAL MATCH (p)-[:HAS_INSTANCE]->(i:GCPInstance)
WITH p, count(DISTINCT i) AS instances
OPTIONAL MATCH (p)-[:HAS_BUCKET]->(b:GCPBucket)
RETURN instances, count(DISTINCT b) AS buckets
`

const statusQuery = `
MATCH (:GCPProject {id: $project})-[:HAS_INSTANCE]->(i:GCPInstance)
RETURN coalesce(i.status, $unknown) AS value, count(i) AS total
`

const locationQuery = `
MATCH (:GCPProject {id: $project})-[:HAS_BUCKET]->(b:GCPBucket)
RETURN coalesce(b.location, $unknown) AS value, count(b) AS total
`

const runQuery = `
MATCH (:GCPProject {id: $project})-->(n)
WHERE n.last_seen_run_id IS NOT NULL
RETURN DISTINCT n.last_seen_run_id AS run_id
`

// InventoryReader 读取项目资源汇总。
type InventoryReader struct {
	client Reader
}

// NewInventoryReader 使用只读客户端构建 InventoryReader。
func NewInventoryReader(client Reader) *InventoryReader {
	return &InventoryReader{client: client}
}

// Summary 查询项目下的实例与存储桶数量及分布，项目不存在时返回零值汇总。
func (r *InventoryReader) Summary(ctx context.Context, projectID string) (Inventory, error) {
	if r.client == nil {
		return Inventory{}, errors.New("graph client 未初始化")
	}
	if projectID == "" {
		return Inventory{}, errors.New("project id 不能为空")
	}
	inv := Inventory{
		ProjectID:       projectID,
		InstanceStatus:  map[string]int64{},
		BucketLocations: map[string]int64{},
	}
	params := map[string]any{"project": projectID, "unknown": unknownValue}

	rows, err := r.client.RunRead(ctx, countQuery, params)
	if err != nil {
		return Inventory{}, fmt.Errorf("查询资源数量失败: %w", err)
	}
	if len(rows) > 0 {
		inv.Instances = toInt64(rows[0]["instances"])
		inv.Buckets = toInt64(rows[0]["buckets"])
	}

	if err := r.groupInto(ctx, statusQuery, params, inv.InstanceStatus); err != nil {
		return Inventory{}, fmt.Errorf("查询实例状态分布失败: %w", err)
	}
	if err := r.groupInto(ctx, locationQuery, params, inv.BucketLocations); err != nil {
		return Inventory{}, fmt.Errorf("查询存储桶位置分布失败: %w", err)
	}

	runs, err := r.client.RunRead(ctx, runQuery, params)
	if err != nil {
		return Inventory{}, fmt.Errorf("查询运行批次失败: %w", err)
	}
	for _, row := range runs {
		if id, ok := row["run_id"].(string); ok {
			inv.LastSeenRunIDs = append(inv.LastSeenRunIDs, id)
		}
	}
	sort.Strings(inv.LastSeenRunIDs)
	return inv, nil
}

func (r *InventoryReader) groupInto(ctx context.Context, query string, params map[string]any, out map[string]int64) error {
	rows, err := r.client.RunRead(ctx, query, params)
	if err != nil {
		return err
	}
	for _, row := range rows {
		value, _ := row["value"].(string)
		if value == "" {
			value = unknownValue
		}
		out[value] += toInt64(row["total"])
	}
	return nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

package loader

import (
	"context"
	"fmt"

	"gcp2neo/internal/cypher"
)

// SchemaManager 负责为 MERGE 主键创建唯一约束。
type SchemaManager struct {
	client SessionFactory
}

func NewSchemaManager(client SessionFactory) *SchemaManager {
	return &SchemaManager{client: client}
}

// Ensure 执行 init_schema.cql，约束均带 IF NOT EXISTS，可重复执行。
func (m *SchemaManager) Ensure(ctx context.Context) error {
	sess := m.client.WriteSession(ctx)
	defer sess.Close(ctx)
	for _, query := range cypher.Statements(cypher.MustAsset("init_schema.cql")) {
		if err := sess.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("执行 schema 语句失败: %w", err)
		}
	}
	return nil
}

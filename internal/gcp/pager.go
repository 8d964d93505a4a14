package gcp

import (
	"context"
	"errors"
	"fmt"
	"sort"

	compute "google.golang.org/api/compute/v1"
)

// ErrCursorLoop 接口重复返回同一个游标。
var ErrCursorLoop = errors.New("分页游标未推进")

// Page 是一次分页调用的结果，NextCursor 为空表示没有下一页。
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// ListPageFunc 按游标拉取一页数据，首页游标为空。
type ListPageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// FetchAll 依次拉取所有分页并按返回顺序拼接。
// 空页只要带有游标就继续翻页；不做去重，错误原样返回给调用方。
func FetchAll[T any](ctx context.Context, list ListPageFunc[T]) ([]T, error) {
	var (
		all    []T
		cursor string
		seen   = map[string]struct{}{}
	)
	for {
		page, err := list(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.NextCursor == "" {
			return all, nil
		}
		if _, dup := seen[page.NextCursor]; dup || page.NextCursor == cursor {
			return nil, fmt.Errorf("%w: %s", ErrCursorLoop, page.NextCursor)
		}
		seen[page.NextCursor] = struct{}{}
		cursor = page.NextCursor
	}
}

// RawInstance 是展开后的实例，带上所属 zone。
type RawInstance struct {
	Zone     string
	Instance *compute.Instance
}

// FlattenAggregated 把按 zone 分组的 aggregatedList 结果展开成一维序列。
// zone 按 key 排序，保证输出稳定；zone 内保持接口顺序。
func FlattenAggregated(items map[string]compute.InstancesScopedList) []RawInstance {
	zones := make([]string, 0, len(items))
	for zone := range items {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	var out []RawInstance
	for _, zone := range zones {
		for _, inst := range items[zone].Instances {
			out = append(out, RawInstance{Zone: zone, Instance: inst})
		}
	}
	return out
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// fakeStore 在内存中模拟 MERGE 语义：节点按标签+主键唯一，边按 (起点, 类型, 终点) 唯一。
type fakeStore struct {
	nodes    map[string]map[string]any
	edges    map[string]struct{}
	opened   int
	closed   int
	runs     int
	failAt   int
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: map[string]map[string]any{}, edges: map[string]struct{}{}}
}

func (s *fakeStore) WriteSession(context.Context) Session {
	s.opened++
	return &fakeSession{store: s}
}

func (s *fakeStore) count(label string) int {
	n := 0
	for key := range s.nodes {
		if strings.HasPrefix(key, label+"/") {
			n++
		}
	}
	return n
}

func (s *fakeStore) node(label, key string) map[string]any {
	return s.nodes[label+"/"+key]
}

type fakeSession struct {
	store  *fakeStore
	closed bool
}

func (f *fakeSession) Run(_ context.Context, query string, params map[string]any) error {
	if f.closed {
		return errors.New("session closed")
	}
	s := f.store
	s.runs++
	if s.failAt > 0 && s.runs == s.failAt {
		return s.failWith
	}

	var label, rel string
	switch {
	case strings.Contains(query, ":GCPInstance"):
		label, rel = "GCPInstance", "HAS_INSTANCE"
	case strings.Contains(query, ":GCPBucket"):
		label, rel = "GCPBucket", "HAS_BUCKET"
	default:
		return fmt.Errorf("unsupported query: %s", query)
	}
	if !strings.Contains(query, "MERGE (p)-[:"+rel+"]->(n)") {
		return fmt.Errorf("query does not merge %s edge", rel)
	}

	project := params["project"].(string)
	key := params["key"].(string)
	s.nodes["GCPProject/"+project] = map[string]any{"id": project}

	nodeKey := label + "/" + key
	node, ok := s.nodes[nodeKey]
	if !ok {
		node = map[string]any{}
		s.nodes[nodeKey] = node
	}
	for k, v := range params["props"].(map[string]any) {
		if v == nil {
			delete(node, k)
			continue
		}
		node[k] = v
	}
	node["last_seen_run_id"] = params["run_id"]
	s.edges[project+"-"+rel+"->"+nodeKey] = struct{}{}
	return nil
}

func (f *fakeSession) Close(context.Context) error {
	if !f.closed {
		f.closed = true
		f.store.closed++
	}
	return nil
}

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gcp2neo/internal/loader"
)

const (
	PhaseInstances = "instances"
	PhaseBuckets   = "buckets"
	PhaseWrite     = "write"
)

// PhaseResult 是单个阶段的结果，失败时 Count 为 0。
type PhaseResult struct {
	Name  string
	Count int
	Err   error
}

// OK 表示阶段是否成功。
func (p PhaseResult) OK() bool {
	return p.Err == nil
}

func (p PhaseResult) MarshalJSON() ([]byte, error) {
	view := struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
		Error string `json:"error,omitempty"`
	}{Name: p.Name, Count: p.Count}
	if p.Err != nil {
		view.Error = p.Err.Error()
	}
	return json.Marshal(view)
}

// Report 汇总一次采集运行，部分失败不会中断其余阶段。
type Report struct {
	RunID     string            `json:"run_id"`
	ProjectID string            `json:"project_id"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration_ns"`
	Instances PhaseResult       `json:"instances"`
	Buckets   PhaseResult       `json:"buckets"`
	Write     PhaseResult       `json:"write"`
	Stats     loader.WriteStats `json:"stats"`
}

// Err 合并所有阶段的错误，全部成功时为 nil。
func (r Report) Err() error {
	var errs []error
	for _, phase := range []PhaseResult{r.Instances, r.Buckets, r.Write} {
		if phase.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", phase.Name, phase.Err))
		}
	}
	return errors.Join(errs...)
}

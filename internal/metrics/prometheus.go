package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	IngestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gcp_ingest_duration_seconds",
		Help:    "单次采集耗时",
		Buckets: prometheus.DefBuckets,
	})

	PhaseErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gcp_ingest_phase_errors_total",
		Help: "各阶段失败次数",
	}, []string{"phase"})

	RecordsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gcp_ingest_records_fetched_total",
		Help: "从 GCP 拉取的记录数",
	}, []string{"kind"})

	RecordsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gcp_ingest_records_written_total",
		Help: "写入 Neo4j 的记录数",
	}, []string{"kind"})

	RecordsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gcp_ingest_records_skipped_total",
		Help: "缺少唯一键被跳过的记录数",
	})
)

// MustRegister 注册指标，可在 main 中调用。
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(IngestDuration, PhaseErrors, RecordsFetched, RecordsWritten, RecordsSkipped)
}

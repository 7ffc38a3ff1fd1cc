package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "stockprice_processor"

// Result label values.
const (
	ResultWritten = "written"
	ResultEmpty   = "empty"
	ResultFailed  = "failed"
)

var (
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total records processed by result.",
		},
		[]string{"topic", "result"},
	)
	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total micro-batches handled by result.",
		},
		[]string{"topic", "result"},
	)
	DecodeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Messages dropped because the payload could not be decoded.",
		},
		[]string{"topic", "reason"},
	)
	WriteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_latency_seconds",
			Help:      "Table write latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
	LastOffset = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_offset",
			Help:      "Next offset to consume per topic/partition, as checkpointed.",
		},
		[]string{"topic", "partition"},
	)
	LastBatchID = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_batch_id",
			Help:      "Id of the last completed micro-batch.",
		},
		[]string{"topic"},
	)
)

func init() {
	prometheus.MustRegister(
		RecordsTotal,
		BatchesTotal,
		DecodeErrorsTotal,
		WriteLatency,
		LastOffset,
		LastBatchID,
	)
}

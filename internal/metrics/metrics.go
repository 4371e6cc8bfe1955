// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 予約が期限切れとして削除された経路。
const (
	ExpiredByLookup = "lookup"
	ExpiredBySweep  = "sweep"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層・ミドルウェア・ワーカーから利用する。
type MetricsCollector interface {
	RecordAppointmentCreated()
	RecordAppointmentUpdated()
	RecordAppointmentDeleted()
	RecordSlotConflict(operation string)
	RecordAppointmentsExpired(source string, count int)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	created        prometheus.Counter
	updated        prometheus.Counter
	deleted        prometheus.Counter
	conflicts      *prometheus.CounterVec
	expired        *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beautyparlour_appointments_created_total",
			Help: "作成された予約の合計数",
		}),
		updated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beautyparlour_appointments_updated_total",
			Help: "更新された予約の合計数",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beautyparlour_appointments_deleted_total",
			Help: "DELETE APIで削除された予約の合計数",
		}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beautyparlour_slot_conflicts_total",
			Help: "予約枠の重複で拒否された操作数",
		}, []string{"operation"}),
		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beautyparlour_appointments_expired_total",
			Help: "期限切れとして削除された予約数",
		}, []string{"source"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beautyparlour_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "beautyparlour_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.created,
		c.updated,
		c.deleted,
		c.conflicts,
		c.expired,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordAppointmentCreated は予約作成を記録する。
func (c *Collector) RecordAppointmentCreated() {
	c.created.Inc()
}

// RecordAppointmentUpdated は予約更新を記録する。
func (c *Collector) RecordAppointmentUpdated() {
	c.updated.Inc()
}

// RecordAppointmentDeleted は予約削除を記録する。
func (c *Collector) RecordAppointmentDeleted() {
	c.deleted.Inc()
}

// RecordSlotConflict は予約枠の重複を記録する。
func (c *Collector) RecordSlotConflict(operation string) {
	c.conflicts.WithLabelValues(operation).Inc()
}

// RecordAppointmentsExpired は期限切れ削除の件数を記録する。
func (c *Collector) RecordAppointmentsExpired(source string, count int) {
	c.expired.WithLabelValues(source).Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使う。
type Nop struct{}

func (Nop) RecordAppointmentCreated()             {}
func (Nop) RecordAppointmentUpdated()             {}
func (Nop) RecordAppointmentDeleted()             {}
func (Nop) RecordSlotConflict(string)             {}
func (Nop) RecordAppointmentsExpired(string, int) {}
func (Nop) RecordHTTPStatus(int)                  {}
func (Nop) RecordRequestLatency(time.Duration)    {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)

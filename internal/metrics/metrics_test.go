package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetricFamily は収集結果から指定名のメトリクスファミリーを探す。
func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

// labelValue はメトリクスから指定ラベルの値を返す。
func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func TestRecordAppointmentCreated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAppointmentCreated()
	c.RecordAppointmentCreated()

	mf := findMetricFamily(t, reg, "beautyparlour_appointments_created_total")
	if val := mf.GetMetric()[0].GetCounter().GetValue(); val != 2 {
		t.Errorf("appointments_created_total = %v, want 2", val)
	}
}

func TestRecordUpdatedAndDeleted_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAppointmentUpdated()
	c.RecordAppointmentDeleted()
	c.RecordAppointmentDeleted()

	updated := findMetricFamily(t, reg, "beautyparlour_appointments_updated_total")
	if val := updated.GetMetric()[0].GetCounter().GetValue(); val != 1 {
		t.Errorf("appointments_updated_total = %v, want 1", val)
	}
	deleted := findMetricFamily(t, reg, "beautyparlour_appointments_deleted_total")
	if val := deleted.GetMetric()[0].GetCounter().GetValue(); val != 2 {
		t.Errorf("appointments_deleted_total = %v, want 2", val)
	}
}

func TestRecordSlotConflict_LabelsByOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSlotConflict("create")
	c.RecordSlotConflict("create")
	c.RecordSlotConflict("update")

	mf := findMetricFamily(t, reg, "beautyparlour_slot_conflicts_total")
	counts := map[string]float64{}
	for _, m := range mf.GetMetric() {
		counts[labelValue(m, "operation")] = m.GetCounter().GetValue()
	}
	if counts["create"] != 2 {
		t.Errorf("create conflicts = %v, want 2", counts["create"])
	}
	if counts["update"] != 1 {
		t.Errorf("update conflicts = %v, want 1", counts["update"])
	}
}

func TestRecordAppointmentsExpired_AddsCountPerSource(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAppointmentsExpired(ExpiredByLookup, 1)
	c.RecordAppointmentsExpired(ExpiredBySweep, 7)

	mf := findMetricFamily(t, reg, "beautyparlour_appointments_expired_total")
	counts := map[string]float64{}
	for _, m := range mf.GetMetric() {
		counts[labelValue(m, "source")] = m.GetCounter().GetValue()
	}
	if counts[ExpiredByLookup] != 1 {
		t.Errorf("lookup = %v, want 1", counts[ExpiredByLookup])
	}
	if counts[ExpiredBySweep] != 7 {
		t.Errorf("sweep = %v, want 7", counts[ExpiredBySweep])
	}
}

func TestRecordHTTPStatus_LabelsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	mf := findMetricFamily(t, reg, "beautyparlour_http_status_total")
	counts := map[string]float64{}
	for _, m := range mf.GetMetric() {
		counts[labelValue(m, "status_code")] = m.GetCounter().GetValue()
	}
	if counts["200"] != 2 {
		t.Errorf("status 200 = %v, want 2", counts["200"])
	}
	if counts["404"] != 1 {
		t.Errorf("status 404 = %v, want 1", counts["404"])
	}
}

func TestRecordRequestLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestLatency(150 * time.Millisecond)

	mf := findMetricFamily(t, reg, "beautyparlour_http_request_duration_seconds")
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 1 {
		t.Errorf("sample count = %d, want 1", h.GetSampleCount())
	}
	if h.GetSampleSum() < 0.149 || h.GetSampleSum() > 0.151 {
		t.Errorf("sample sum = %v, want ~0.15", h.GetSampleSum())
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAppointmentCreated()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "beautyparlour_appointments_created_total") {
		t.Error("response should contain beautyparlour_appointments_created_total metric")
	}
}

func TestNop_ImplementsCollector(t *testing.T) {
	var c MetricsCollector = Nop{}
	c.RecordAppointmentCreated()
	c.RecordSlotConflict("create")
	c.RecordAppointmentsExpired(ExpiredBySweep, 3)
}

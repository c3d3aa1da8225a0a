package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	tests := map[int]string{
		200: "2xx",
		204: "2xx",
		301: "3xx",
		404: "4xx",
		429: "4xx",
		500: "5xx",
		99:  "unknown",
	}

	for code, want := range tests {
		if got := classifyStatus(code); got != want {
			t.Errorf("classifyStatus(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestHandler_ExposesRecordedMetrics(t *testing.T) {
	RecordRequest(http.MethodGet, "/api/products", http.StatusOK, 10*time.Millisecond)
	RecordCatalogLoad("snapshot")
	RecordReplicationInsert(false)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`storefront_http_requests_total{endpoint="/api/products",method="GET",status="2xx"}`,
		`storefront_catalog_loads_total{source="snapshot"}`,
		`storefront_replication_inserts_total{result="failed"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %s", want)
		}
	}
}

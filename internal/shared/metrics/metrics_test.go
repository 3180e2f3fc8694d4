package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHandlerExposesCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncUpload("created")
	IncStorageWrite("local", true)
	IncRecordInsert("inserted")
	ObserveRequest(http.MethodPost, "/api/organizations/me/documents", http.StatusCreated, 20*time.Millisecond)

	r := gin.New()
	r.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, name := range []string{
		`orgdocs_uploads_total{outcome="created"}`,
		`orgdocs_storage_writes_total{backend="local",success="true"}`,
		`orgdocs_record_inserts_total{outcome="inserted"}`,
		"orgdocs_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}

package training

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTrainEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group(""))

	req := httptest.NewRequest(http.MethodPost, "/train", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body, got %d: %s", resp.Code, resp.Body.String())
	}
	var got trainResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Message != "Model training completed successfully" || got.Samples != 0 {
		t.Fatalf("unexpected response %+v", got)
	}

	body := `{"samples":[{"description":"book the meeting room","task_type":"meeting_scheduling"}]}`
	req = httptest.NewRequest(http.MethodPost, "/train", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Samples != 1 || got.ArchiveKey == "" {
		t.Fatalf("unexpected response %+v", got)
	}

	body = `{"samples":[{"description":"x","task_type":"cooking"}]}`
	req = httptest.NewRequest(http.MethodPost, "/train", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cherrygram/reputation-api/pkg/limiter"
	"github.com/cherrygram/reputation-api/pkg/reputation"
)

func newTestRouter(t *testing.T, store Store, n *fakeNotifier) *chi.Mux {
	t.Helper()

	l := limiter.New(limiter.Config{Requests: 100, Window: time.Minute})
	t.Cleanup(l.Close)

	r := chi.NewRouter()
	RegisterRoutes(r, newTestService(store, n), limiter.Middleware(l), zap.NewNop())
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHTTP_Check(t *testing.T) {
	added := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store := &fakeStore{
		lookupFn: func(_ context.Context, username string) (*reputation.CheckResult, error) {
			if username == "scammer123" {
				return &reputation.CheckResult{
					Username: username,
					Verdict:  reputation.VerdictScam,
					Scam:     &reputation.ScamEntry{Username: username, Reason: "Fraud", AddedAt: added},
				}, nil
			}
			return &reputation.CheckResult{Username: username, Verdict: reputation.VerdictUnknown}, nil
		},
	}
	router := newTestRouter(t, store, &fakeNotifier{})

	rec := postJSON(t, router, "/check", map[string]string{"username": "@Scammer123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp checkResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "scam" || resp.Username != "scammer123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Reason != "Fraud" || resp.Date == "" {
		t.Fatalf("expected reason and date, got %+v", resp)
	}

	rec = postJSON(t, router, "/check", map[string]string{"username": "nobody00"})
	var unknown checkResponse
	decodeBody(t, rec, &unknown)
	if unknown.Status != "unknown" || unknown.Message == "" {
		t.Fatalf("unexpected unknown response: %+v", unknown)
	}
}

func TestHTTP_Check_InvalidUsername(t *testing.T) {
	router := newTestRouter(t, &fakeStore{}, &fakeNotifier{})

	rec := postJSON(t, router, "/check", map[string]string{"username": "ab"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	decodeBody(t, rec, &body)
	if body.Code != http.StatusBadRequest || body.Error == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestHTTP_MissingFields(t *testing.T) {
	router := newTestRouter(t, &fakeStore{}, &fakeNotifier{})

	rec := postJSON(t, router, "/apply", map[string]string{"username": "applicant_one"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("apply without description: expected 400, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if !strings.Contains(body.Error, "description") {
		t.Fatalf("error should name the missing field, got %q", body.Error)
	}

	rec = postJSON(t, router, "/report", map[string]string{"description": strings.Repeat("x", 25)})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("report without scammer_username: expected 400, got %d", rec.Code)
	}
}

func TestHTTP_Check_MalformedJSON(t *testing.T) {
	router := newTestRouter(t, &fakeStore{}, &fakeNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHTTP_Apply(t *testing.T) {
	n := &fakeNotifier{}
	store := &fakeStore{
		createAppFn: func(_ context.Context, app *reputation.Application) error {
			app.ID = 21
			return nil
		},
	}
	router := newTestRouter(t, store, n)

	rec := postJSON(t, router, "/apply", map[string]string{
		"username":    "applicant_one",
		"description": "I have been selling accounts for two years",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp applyResponse
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.ApplicationID != 21 || resp.Message == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(n.texts) != 1 {
		t.Fatalf("expected admin notification, got %d", len(n.texts))
	}
}

func TestHTTP_Report(t *testing.T) {
	store := &fakeStore{
		createReportFn: func(_ context.Context, report *reputation.ScamReport) error {
			report.ID = 33
			return nil
		},
	}
	router := newTestRouter(t, store, &fakeNotifier{})

	rec := postJSON(t, router, "/report", map[string]string{
		"scammer_username": "bad_actor",
		"description":      strings.Repeat("details ", 4),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp reportResponse
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.ReportID != 33 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHTTP_Report_BlankReporterIsAnonymous(t *testing.T) {
	var stored *reputation.ScamReport
	store := &fakeStore{
		createReportFn: func(_ context.Context, report *reputation.ScamReport) error {
			report.ID = 44
			stored = report
			return nil
		},
	}
	router := newTestRouter(t, store, &fakeNotifier{})

	rec := postJSON(t, router, "/report", map[string]string{
		"reporter_username": "   ",
		"scammer_username":  "bad_actor",
		"description":       strings.Repeat("details ", 4),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("whitespace-only reporter must be treated as anonymous, got %d: %s", rec.Code, rec.Body.String())
	}
	if stored == nil || stored.ReporterUsername != "" {
		t.Fatalf("expected empty reporter, got %+v", stored)
	}
}

func TestHTTP_RateLimitAppliesToJSONEndpoints(t *testing.T) {
	l := limiter.New(limiter.Config{Requests: 1, Window: time.Minute})
	t.Cleanup(l.Close)

	store := &fakeStore{
		lookupFn: func(_ context.Context, username string) (*reputation.CheckResult, error) {
			return &reputation.CheckResult{Username: username, Verdict: reputation.VerdictUnknown}, nil
		},
	}

	r := chi.NewRouter()
	RegisterRoutes(r, newTestService(store, &fakeNotifier{}), limiter.Middleware(l), zap.NewNop())

	rec := postJSON(t, r, "/check", map[string]string{"username": "someuser"})
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = postJSON(t, r, "/check", map[string]string{"username": "someuser"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}

	// The screenshot endpoint is outside the rate limited group
	rec = uploadScreenshot(t, r, "image/png", []byte{1, 2, 3}, "7", "cap")
	if rec.Code != http.StatusOK {
		t.Fatalf("upload should not be rate limited, got %d: %s", rec.Code, rec.Body.String())
	}
}

func uploadScreenshot(t *testing.T, router http.Handler, contentType string, data []byte, reportID, caption string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="screenshot.png"`)
	partHeader.Set("Content-Type", contentType)
	part, err := mw.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write file data: %v", err)
	}
	if err := mw.WriteField("report_id", reportID); err != nil {
		t.Fatalf("failed to write report_id: %v", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			t.Fatalf("failed to write caption: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload-screenshot", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_UploadScreenshot(t *testing.T) {
	n := &fakeNotifier{}
	router := newTestRouter(t, &fakeStore{}, n)

	rec := uploadScreenshot(t, router, "image/png", []byte{0x89, 0x50, 0x4e, 0x47}, "7", "payment proof")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ackResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(n.photos) != 1 {
		t.Fatalf("expected forwarded photo, got %d", len(n.photos))
	}
	if !strings.Contains(n.captions[0], "#7") {
		t.Fatalf("unexpected caption: %q", n.captions[0])
	}
}

func TestHTTP_UploadScreenshot_Rejections(t *testing.T) {
	n := &fakeNotifier{}
	router := newTestRouter(t, &fakeStore{}, n)

	rec := uploadScreenshot(t, router, "text/plain", []byte("hello"), "7", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-image: expected 400, got %d", rec.Code)
	}

	rec = uploadScreenshot(t, router, "image/png", []byte{1}, "not-a-number", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad report_id: expected 400, got %d", rec.Code)
	}

	if len(n.photos) != 0 {
		t.Fatal("rejected uploads must not reach the notifier")
	}
}

func TestHTTP_UploadScreenshot_OversizedBody(t *testing.T) {
	n := &fakeNotifier{}
	router := newTestRouter(t, &fakeStore{}, n)

	rec := uploadScreenshot(t, router, "image/png", make([]byte, MaxScreenshotBytes+(128<<10)), "7", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized upload: expected 400, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if !strings.Contains(body.Error, "10 MiB") {
		t.Fatalf("error should name the size limit, got %q", body.Error)
	}
	if len(n.photos) != 0 {
		t.Fatal("oversized upload must not reach the notifier")
	}
}

func TestHTTP_RootAndHealth(t *testing.T) {
	router := newTestRouter(t, &fakeStore{}, &fakeNotifier{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: expected 200, got %d", rec.Code)
	}

	var root map[string]string
	decodeBody(t, rec, &root)
	if root["status"] != "ok" || root["service"] == "" {
		t.Fatalf("unexpected root response: %+v", root)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health: expected 200, got %d", rec.Code)
	}

	var health map[string]string
	decodeBody(t, rec, &health)
	if health["status"] != "healthy" {
		t.Fatalf("unexpected health response: %+v", health)
	}
}

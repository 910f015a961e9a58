package otfgrowth

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestService(t *testing.T, opts ...Option) *OtfGrowthService {
	t.Helper()
	base := []Option{Name("growth-test"), ID("growth-test-id"), Host("localhost"), Port(18085)}
	srvc, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srvc
}

func do(srvc *OtfGrowthService, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	srvc.e.ServeHTTP(rec, req)
	return rec
}

const threeYearOld = `{"birthDay": 1, "birthMonth": 1, "birthYear": 2020,
	"examDay": 1, "examMonth": 1, "examYear": 2023,
	"heightCm": 100, "weightKg": 15, "gender": "male"}`

func TestPing(t *testing.T) {
	srvc := newTestService(t)
	rec := do(srvc, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestEvaluate(t *testing.T) {
	srvc := newTestService(t)
	rec := do(srvc, http.MethodPost, "/evaluate", threeYearOld)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result struct {
			Age struct {
				Days   int     `json:"days"`
				Months float64 `json:"months"`
				Label  string  `json:"label"`
			} `json:"age"`
			Warning       *string                `json:"warning"`
			Height        map[string]interface{} `json:"height"`
			Weight        map[string]interface{} `json:"weight"`
			BodyMassIndex map[string]interface{} `json:"bodyMassIndex"`
		} `json:"result"`
		ServiceID   string `json:"growthServiceID"`
		ServiceName string `json:"growthServiceName"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Result.Age.Label != "3 Y 0 M" || resp.Result.Age.Days != 1096 {
		t.Errorf("age = %+v", resp.Result.Age)
	}
	if resp.Result.Warning != nil {
		t.Errorf("unexpected warning %q", *resp.Result.Warning)
	}
	if resp.Result.Height == nil || resp.Result.Weight == nil || resp.Result.BodyMassIndex == nil {
		t.Errorf("expected all metrics: %s", rec.Body.String())
	}
	if resp.Result.BodyMassIndex["category"] != "Healthy" {
		t.Errorf("category = %v", resp.Result.BodyMassIndex["category"])
	}
	if resp.ServiceName != "growth-test" || resp.ServiceID != "growth-test-id" {
		t.Errorf("service identity = %q / %q", resp.ServiceName, resp.ServiceID)
	}
}

func TestEvaluateBadRequests(t *testing.T) {
	srvc := newTestService(t)

	tests := []struct {
		name string
		body string
	}{
		{"exam before birth", strings.Replace(threeYearOld, `"examYear": 2023`, `"examYear": 2019`, 1)},
		{"zero height", strings.Replace(threeYearOld, `"heightCm": 100`, `"heightCm": 0`, 1)},
		{"negative weight", strings.Replace(threeYearOld, `"weightKg": 15`, `"weightKg": -1`, 1)},
		{"unknown gender", strings.Replace(threeYearOld, `"male"`, `"unknown"`, 1)},
		{"malformed json", `{"birthDay": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srvc, http.MethodPost, "/evaluate", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400, body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestEvaluateInvalidCalendarDate(t *testing.T) {
	srvc := newTestService(t)
	body := strings.Replace(threeYearOld, `"birthMonth": 1`, `"birthMonth": 13`, 1)
	rec := do(srvc, http.MethodPost, "/evaluate", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestEvaluateMsgPack(t *testing.T) {
	srvc := newTestService(t)
	rec := do(srvc, http.MethodPost, "/evaluate?format=msgpack", threeYearOld)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != mimeMsgPack {
		t.Errorf("content type = %q", ct)
	}

	var resp map[string]interface{}
	if err := msgpack.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	result, ok := resp["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("result = %T", resp["result"])
	}
	age, ok := result["age"].(map[string]interface{})
	if !ok || age["label"] != "3 Y 0 M" {
		t.Errorf("age = %v", result["age"])
	}
	if _, ok := result["bodyMassIndex"]; !ok {
		t.Errorf("expected bodyMassIndex in %v", result)
	}
}

func TestReferences(t *testing.T) {
	srvc := newTestService(t)
	rec := do(srvc, http.MethodGet, "/references", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Source string          `json:"source"`
		Tables []referenceInfo `json:"tables"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Source == "" || len(resp.Tables) != 8 {
		t.Errorf("references = %+v", resp)
	}
}

func TestLMS(t *testing.T) {
	srvc := newTestService(t)

	rec := do(srvc, http.MethodGet, "/lms?gender=male&metric=height&months=36", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		LMS struct {
			L float64 `json:"l"`
			M float64 `json:"m"`
			S float64 `json:"s"`
		} `json:"lms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.LMS.L != 1 || resp.LMS.M != 96.0835 || resp.LMS.S != 0.03707 {
		t.Errorf("lms = %+v", resp.LMS)
	}

	for _, q := range []string{
		"/lms?gender=other&metric=height&months=36",
		"/lms?gender=male&metric=armspan&months=36",
		"/lms?gender=male&metric=height&months=-1",
		"/lms?gender=male&metric=height",
	} {
		if rec := do(srvc, http.MethodGet, q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, expected 400", q, rec.Code)
		}
	}
}

func writeSnapshot(t *testing.T, path, doc string) {
	t.Helper()
	if err := ioutil.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLMSMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lms.json")
	writeSnapshot(t, path, `{"source": "boys height", "tables": {"male": {"height": {"0": [1, 49.9, 0.038]}}}}`)
	srvc := newTestService(t, Tables(path))

	rec := do(srvc, http.MethodGet, "/lms?gender=female&metric=height&months=12", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}

func TestReloadTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lms.json")
	writeSnapshot(t, path, `{"source": "first", "tables": {"male": {"height": {"0": [1, 49.9, 0.038]}}}}`)
	srvc := newTestService(t, Tables(path))
	if got := srvc.tables.Current().Source; got != "first" {
		t.Fatalf("source = %q", got)
	}

	writeSnapshot(t, path, `{"source": "second", "tables": {"female": {"height": {"0": [1, 49.1, 0.038]}}}}`)
	if err := srvc.ReloadTables(); err != nil {
		t.Fatalf("ReloadTables: %v", err)
	}
	if got := srvc.tables.Current().Source; got != "second" {
		t.Errorf("source = %q after reload", got)
	}

	writeSnapshot(t, path, `{"source": "broken", "tables": `)
	if err := srvc.ReloadTables(); err == nil {
		t.Errorf("expected reload of a broken snapshot to fail")
	}
	if got := srvc.tables.Current().Source; got != "second" {
		t.Errorf("source = %q, a failed reload must keep the current tables", got)
	}
}

func TestNewWithMissingSnapshot(t *testing.T) {
	_, err := New(Port(18086), Tables(filepath.Join(t.TempDir(), "missing.json")))
	if err == nil {
		t.Errorf("expected an error")
	}
}

func TestDefaults(t *testing.T) {
	srvc, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if srvc.serviceName == "" || srvc.serviceID == "" || srvc.serviceHost != "localhost" || srvc.servicePort == 0 {
		t.Errorf("defaults not applied: %q %q %q %d", srvc.serviceName, srvc.serviceID, srvc.serviceHost, srvc.servicePort)
	}
}

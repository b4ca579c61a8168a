package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tarantula-log/internal/platform/metrics"
	"tarantula-log/internal/router"
)

func TestHTTP_EndToEnd_FirstUseCopyAndDelete(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	keeperID := "keeper-2"

	// 1) Primer registro con nombre crea el ejemplar
	firstRef := createLog(t, ts.URL, ownerID, map[string]any{
		"specimen":   "Rosie",
		"species":    "G. rosea",
		"date":       "2024-01-01",
		"entry_type": "molt",
	})
	secondRef := createLog(t, ts.URL, ownerID, map[string]any{
		"specimen":   "Rosie",
		"species":    "G. rosea",
		"date":       "2024-07-01",
		"entry_type": "molt",
	})
	if firstRef == "" || firstRef != secondRef {
		t.Fatalf("expected both logs linked to the same specimen, got %q and %q", firstRef, secondRef)
	}

	// 2) El ejemplar aparece en el listado
	{
		st, body := doReq(t, ts.URL, "GET", "/specimens", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list specimens, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != firstRef || items[0].Name != "Rosie" {
			t.Fatalf("unexpected specimens: %s", string(body))
		}
	}

	// 3) Analytics de mudas
	{
		st, body := doReq(t, ts.URL, "GET", "/analytics/molts", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 analytics, got %d body=%s", st, string(body))
		}
		var items []struct {
			Intervals struct {
				Intervals []int `json:"intervals"`
			} `json:"molt_intervals"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || len(items[0].Intervals.Intervals) != 1 || items[0].Intervals.Intervals[0] != 182 {
			t.Fatalf("unexpected analytics: %s", string(body))
		}
	}

	// 4) Vista compartida sin auth
	{
		st, body := doReq(t, ts.URL, "GET", "/shared/specimens?owner="+ownerID+"&specimen=Rosie", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 shared view, got %d body=%s", st, string(body))
		}
		var v struct {
			Entries []json.RawMessage `json:"entries"`
		}
		_ = json.Unmarshal(body, &v)
		if len(v.Entries) != 2 {
			t.Fatalf("expected 2 shared entries, got %s", string(body))
		}
	}

	// 5) Otro usuario copia el ejemplar
	{
		st, body := doReq(t, ts.URL, "POST", "/specimens/copy", keeperID, map[string]any{
			"specimen": "Rosie",
			"owner_id": ownerID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 copy, got %d body=%s", st, string(body))
		}
		var resp struct {
			Copied struct {
				Molt int `json:"molt"`
			} `json:"copied"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Copied.Molt != 2 {
			t.Fatalf("expected 2 copied molts, got %s", string(body))
		}
	}

	// 5b) La copia queda enlazada a un ejemplar propio del que copió
	{
		st, body := doReq(t, ts.URL, "GET", "/specimens", keeperID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list specimens, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Name != "Rosie" || items[0].ID == firstRef {
			t.Fatalf("expected one keeper-owned specimen, got %s", string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/logs", keeperID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list logs, got %d body=%s", st, string(body))
		}
		var logs []struct {
			SpecimenID *string `json:"specimen_id"`
		}
		_ = json.Unmarshal(body, &logs)
		if len(logs) != 2 {
			t.Fatalf("expected 2 copied logs, got %s", string(body))
		}
		for _, l := range logs {
			if l.SpecimenID == nil || *l.SpecimenID != items[0].ID {
				t.Fatalf("expected copied logs linked to %s, got %s", items[0].ID, string(body))
			}
		}
	}

	// 6) Borrar desvincula los registros
	{
		st, body := doReq(t, ts.URL, "DELETE", "/specimens/"+firstRef, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete, got %d body=%s", st, string(body))
		}
		var resp struct {
			Deleted  bool `json:"deleted"`
			Detached struct {
				Molt int64 `json:"molt"`
			} `json:"detached"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.Deleted || resp.Detached.Molt != 2 {
			t.Fatalf("unexpected delete response: %s", string(body))
		}
	}

	// 7) Los registros conservan el nombre libre
	{
		st, body := doReq(t, ts.URL, "GET", "/logs", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list logs, got %d body=%s", st, string(body))
		}
		var items []struct {
			Specimen   string  `json:"specimen"`
			SpecimenID *string `json:"specimen_id"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 {
			t.Fatalf("expected 2 logs, got %s", string(body))
		}
		for _, it := range items {
			if it.Specimen != "Rosie" || it.SpecimenID != nil {
				t.Fatalf("expected detached log keeping name, got %s", string(body))
			}
		}
	}
}

func TestHTTP_RequiresAuth(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	for _, path := range []string{"/specimens", "/logs", "/health-logs", "/breeding", "/covers", "/analytics/molts"} {
		st, body := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected 401, got %d body=%s", path, st, string(body))
		}
	}
}

func TestHTTP_DuplicateSpecimenConflicts(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	payload := map[string]any{"name": "Apollo", "species": "B. hamorii"}
	if st, body := doReq(t, ts.URL, "POST", "/specimens", "u1", payload); st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "POST", "/specimens", "u1", payload); st != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", st, string(body))
	}
}

func TestHTTP_PatchDistinguishesAbsentFromNull(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	type specimen struct {
		ID      string `json:"id"`
		Species string `json:"species"`
		Notes   string `json:"notes"`
	}
	decode := func(body []byte) specimen {
		var sp specimen
		if err := json.Unmarshal(body, &sp); err != nil {
			t.Fatalf("decode specimen: %v body=%s", err, string(body))
		}
		return sp
	}

	st, body := doReq(t, ts.URL, "POST", "/specimens", "u1", map[string]any{"name": "Luna", "species": "B. hamorii", "notes": "shy"})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}
	id := decode(body).ID

	// Campo ausente: species no cambia
	st, body = doReq(t, ts.URL, "PATCH", "/specimens/"+id, "u1", map[string]any{"notes": "calm"})
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	if sp := decode(body); sp.Species != "B. hamorii" || sp.Notes != "calm" {
		t.Fatalf("expected species kept and notes updated, got %s", string(body))
	}

	// null explícito: species se limpia, notes no se toca
	st, body = doReq(t, ts.URL, "PATCH", "/specimens/"+id, "u1", map[string]any{"species": nil})
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	if sp := decode(body); sp.Species != "" || sp.Notes != "calm" {
		t.Fatalf("expected species cleared and notes kept, got %s", string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/specimens/"+id, "u1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	if sp := decode(body); sp.Species != "" {
		t.Fatalf("expected cleared species to persist, got %s", string(body))
	}

	// name no admite null
	if st, body := doReq(t, ts.URL, "PATCH", "/specimens/"+id, "u1", map[string]any{"name": nil}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for null name, got %d body=%s", st, string(body))
	}
}

func TestHTTP_OperationalEndpoints(t *testing.T) {
	m, err := metrics.New()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	ts := httptest.NewServer(router.NewRouter(router.Options{Metrics: m}))
	defer ts.Close()

	if st, body := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected /health: %d %s", st, string(body))
	}

	st, body := doReq(t, ts.URL, "GET", "/migration/status", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"phase":"pending"`) {
		t.Fatalf("unexpected /migration/status: %d %s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "Tarantula Log API") {
		t.Fatalf("unexpected swagger doc: %d", st)
	}

	st, body = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 /metrics, got %d", st)
	}
	if !strings.Contains(string(body), "tarantula_http_requests_total") {
		t.Fatalf("expected http request counter in /metrics output")
	}
}

func createLog(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/logs", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create log, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID         string  `json:"id"`
		SpecimenID *string `json:"specimen_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create log: missing id body=%s", string(body))
	}
	if resp.SpecimenID == nil {
		return ""
	}
	return *resp.SpecimenID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

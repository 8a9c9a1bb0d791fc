package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/api"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/models"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/predict"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/store"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type userPage struct {
	Items      []models.User `json:"items"`
	NextCursor string        `json:"nextCursor"`
}

// newTestServer wires the full router over a memory store and a stubbed
// prediction upstream.
func newTestServer(t *testing.T, upstream http.HandlerFunc) *httptest.Server {
	t.Helper()

	if upstream == nil {
		upstream = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unexpected upstream call", http.StatusInternalServerError)
		}
	}
	upstreamSrv := httptest.NewServer(upstream)
	t.Cleanup(upstreamSrv.Close)

	predictor := predict.NewClient(upstreamSrv.URL, time.Second)
	router := api.NewRouter(zerolog.Nop(), store.NewMemoryStore(), nil, predictor)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()

	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	return resp.StatusCode, env
}

func TestListUsersSeedsCollection(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := doJSON(t, "GET", srv.URL+"/api/users", "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %s", status, env.Error)
	}

	var page userPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 seed users, got %d", len(page.Items))
	}
}

func TestCreateUserValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := doJSON(t, "POST", srv.URL+"/api/users", `{"name":"   "}`)
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 failure, got %d", status)
	}
	if env.Error != "name required" {
		t.Fatalf("unexpected error message %q", env.Error)
	}
}

func TestCreateUserAssignsID(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := doJSON(t, "POST", srv.URL+"/api/users", `{"name":"  Dana  "}`)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %s", status, env.Error)
	}

	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatal(err)
	}
	if user.ID == "" {
		t.Fatal("no id assigned")
	}
	if user.Name != "Dana" {
		t.Fatalf("name not trimmed: %q", user.Name)
	}
}

func TestDeleteUserMissing(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := doJSON(t, "DELETE", srv.URL+"/api/users/nope", "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %s", status, env.Error)
	}

	var res struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Deleted || res.ID != "nope" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDeleteManyPartial(t *testing.T) {
	srv := newTestServer(t, nil)

	// Create one user, then bulk-delete it alongside two missing ids.
	_, env := doJSON(t, "POST", srv.URL+"/api/users", `{"name":"Ephemeral"}`)
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatal(err)
	}

	body := `{"ids":["` + user.ID + `","missing-1","missing-2"]}`
	status, env := doJSON(t, "POST", srv.URL+"/api/users/deleteMany", body)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %s", status, env.Error)
	}

	var res struct {
		DeletedCount int      `json:"deletedCount"`
		IDs          []string `json:"ids"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if res.DeletedCount != 1 {
		t.Fatalf("expected deletedCount 1, got %d", res.DeletedCount)
	}
	if len(res.IDs) != 3 {
		t.Fatalf("expected 3 echoed ids, got %d", len(res.IDs))
	}
}

func TestDeleteManyEmptyIDs(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := doJSON(t, "POST", srv.URL+"/api/users/deleteMany", `{"ids":[]}`)
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 failure, got %d", status)
	}
	if env.Error != "ids required" {
		t.Fatalf("unexpected error message %q", env.Error)
	}
}

func TestUserPaginationSweep(t *testing.T) {
	srv := newTestServer(t, nil)

	// Seed plus a few extras.
	for _, name := range []string{"Dan", "Eve", "Fay", "Gus"} {
		doJSON(t, "POST", srv.URL+"/api/users", `{"name":"`+name+`"}`)
	}

	seen := make(map[string]bool)
	url := srv.URL + "/api/users?limit=2"
	for {
		status, env := doJSON(t, "GET", url, "")
		if status != http.StatusOK {
			t.Fatalf("unexpected status %d", status)
		}
		var page userPage
		if err := json.Unmarshal(env.Data, &page); err != nil {
			t.Fatal(err)
		}
		for _, u := range page.Items {
			if seen[u.ID] {
				t.Fatalf("user %s returned twice", u.ID)
			}
			seen[u.ID] = true
		}
		if page.NextCursor == "" {
			break
		}
		url = srv.URL + "/api/users?limit=2&cursor=" + page.NextCursor
	}

	// 3 seeds + 4 created
	if len(seen) != 7 {
		t.Fatalf("expected 7 distinct users, got %d", len(seen))
	}
}

func TestMessagesChatNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := doJSON(t, "GET", srv.URL+"/api/chats/missing/messages", "")
	if status != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404 failure, got %d", status)
	}

	status, env = doJSON(t, "POST", srv.URL+"/api/chats/missing/messages", `{"userId":"u1","text":"hi"}`)
	if status != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404 failure, got %d", status)
	}
}

func TestSendMessageFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	// Create a chat, then post a message into it.
	_, env := doJSON(t, "POST", srv.URL+"/api/chats", `{"title":"Earnings"}`)
	var chat struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(env.Data, &chat); err != nil {
		t.Fatal(err)
	}
	if chat.ID == "" || chat.Title != "Earnings" {
		t.Fatalf("unexpected chat: %+v", chat)
	}

	status, env := doJSON(t, "POST", srv.URL+"/api/chats/"+chat.ID+"/messages", `{"userId":"u1","text":"calls printed"}`)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %s", status, env.Error)
	}

	var msg models.Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.ChatID != chat.ID || msg.ID == "" || msg.Timestamp == 0 {
		t.Fatalf("unexpected message: %+v", msg)
	}

	status, env = doJSON(t, "GET", srv.URL+"/api/chats/"+chat.ID+"/messages", "")
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d", status)
	}
	var msgs []models.Message
	if err := json.Unmarshal(env.Data, &msgs); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].ID != msg.ID {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}

func TestPredictEndToEnd(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]float64{
			"prediction": {101, 102, 103, 104, 105, 106, 107},
		})
	})

	status, env := doJSON(t, "POST", srv.URL+"/api/predict", `{"ticker":"AAPL","days":7}`)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %s", status, env.Error)
	}

	var series []models.StockDataPoint
	if err := json.Unmarshal(env.Data, &series); err != nil {
		t.Fatal(err)
	}
	if len(series) != 97 {
		t.Fatalf("expected 97 points (90 history + 7 forecast), got %d", len(series))
	}

	historical := series[:90]
	for i, p := range historical {
		if p.IsPrediction {
			t.Fatalf("point %d flagged as prediction", i)
		}
	}
	want := []float64{101, 102, 103, 104, 105, 106, 107}
	for i, p := range series[90:] {
		if !p.IsPrediction || p.Price != want[i] {
			t.Fatalf("forecast point %d: %+v", i, p)
		}
	}
}

func TestPredictValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, body := range []string{
		`{"ticker":"","days":7}`,
		`{"ticker":"AAPL","days":0}`,
		`{"ticker":"AAPL","days":-2}`,
	} {
		status, env := doJSON(t, "POST", srv.URL+"/api/predict", body)
		if status != http.StatusBadRequest || env.Success {
			t.Fatalf("expected 400 for %s, got %d", body, status)
		}
	}
}

func TestPredictUpstreamFailureNoPartial(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	})

	status, env := doJSON(t, "POST", srv.URL+"/api/predict", `{"ticker":"AAPL","days":7}`)
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 failure, got %d", status)
	}
	if env.Data != nil {
		t.Fatalf("expected no data on failure, got %s", env.Data)
	}
	if !strings.Contains(env.Error, "AAPL") {
		t.Fatalf("error should name the ticker: %q", env.Error)
	}
}

func TestInvalidCursorRejected(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := doJSON(t, "GET", srv.URL+"/api/users?cursor=%21%21%21", "")
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 failure, got %d", status)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health struct {
		Status string                     `json:"status"`
		Checks map[string]json.RawMessage `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", health.Status)
	}
	if _, ok := health.Checks["store"]; !ok {
		t.Fatal("missing store check")
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
)

func createRoom(t *testing.T, ts *httptest.Server, payload any) (string, string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	code, ok := body["room_code"].(string)
	if !ok {
		t.Fatalf("expected room_code string, got %#v", body["room_code"])
	}
	secret, ok := body["host_secret"].(string)
	if !ok {
		t.Fatalf("expected host_secret string, got %#v", body["host_secret"])
	}
	return code, secret
}

func fetchRoom(t *testing.T, ts *httptest.Server, code string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/rooms/"+code, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return roomFromBody(t, decodeBody(t, resp))
}

func hostPost(t *testing.T, ts *httptest.Server, path, secret string, payload map[string]any) *http.Response {
	t.Helper()
	if payload == nil {
		payload = map[string]any{}
	}
	payload["host_secret"] = secret
	return doRequest(t, ts, http.MethodPost, path, payload)
}

func hostPostOK(t *testing.T, ts *httptest.Server, path, secret string, payload map[string]any) map[string]any {
	t.Helper()
	resp := hostPost(t, ts, path, secret, payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d for %s, got %d", http.StatusOK, path, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func roomFromBody(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	snap, ok := body["room"].(map[string]any)
	if !ok {
		t.Fatalf("expected room object, got %#v", body["room"])
	}
	return snap
}

func roomTeams(t *testing.T, snap map[string]any) []map[string]any {
	t.Helper()
	raw, ok := snap["teams"].([]any)
	if !ok {
		t.Fatalf("expected teams array, got %#v", snap["teams"])
	}
	teams := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		team, ok := entry.(map[string]any)
		if !ok {
			t.Fatalf("expected team object, got %#v", entry)
		}
		teams = append(teams, team)
	}
	return teams
}

func roomTeam(t *testing.T, snap map[string]any, id string) map[string]any {
	t.Helper()
	for _, team := range roomTeams(t, snap) {
		if team["id"] == id {
			return team
		}
	}
	t.Fatalf("team %s not found", id)
	return nil
}

func roomBoard(t *testing.T, snap map[string]any) map[string]any {
	t.Helper()
	board, ok := snap["board"].(map[string]any)
	if !ok {
		t.Fatalf("expected board object, got %#v", snap["board"])
	}
	return board
}

func boardAnswers(t *testing.T, snap map[string]any) []map[string]any {
	t.Helper()
	raw, ok := roomBoard(t, snap)["answers"].([]any)
	if !ok {
		t.Fatalf("expected answers array")
	}
	answers := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		answer, ok := entry.(map[string]any)
		if !ok {
			t.Fatalf("expected answer object, got %#v", entry)
		}
		answers = append(answers, answer)
	}
	return answers
}

func roomTimer(t *testing.T, snap map[string]any) map[string]any {
	t.Helper()
	timer, ok := snap["timer"].(map[string]any)
	if !ok {
		t.Fatalf("expected timer object, got %#v", snap["timer"])
	}
	return timer
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	return doClientRequest(t, http.DefaultClient, ts, method, path, payload)
}

// newBrowserClient returns a client with its own cookie jar, standing in
// for one browser profile.
func newBrowserClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("new cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doClientRequest(t *testing.T, client *http.Client, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

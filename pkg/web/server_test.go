package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ninjabotics/ninja/pkg/board"
	"github.com/ninjabotics/ninja/pkg/brain"
	"github.com/ninjabotics/ninja/pkg/movement"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	move, err := movement.New(board.NewMock(), nil, movement.Channels{LeftLeg: 0, RightLeg: 1, LeftFoot: 2, RightFoot: 3})
	if err != nil {
		t.Fatalf("movement.New: %v", err)
	}
	t.Cleanup(func() { move.Close() })
	return NewServer("0", brain.New(move))
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, 10000)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/status", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"state":"idle"`) {
		t.Errorf("body = %s, want idle state", body)
	}
}

func TestHandleCommand(t *testing.T) {
	s := newTestServer(t)

	code, out := postJSON(t, s, "/api/command", CommandRequest{Command: "walk", Speed: "fast"})
	if code != 200 {
		t.Fatalf("status = %d, want 200, body %v", code, out)
	}
	if out["id"] == "" || out["id"] == nil {
		t.Error("response should carry a command id")
	}
	result, ok := out["result"].(map[string]interface{})
	if !ok || result["command"] != "walk" {
		t.Errorf("result = %v", out["result"])
	}

	code, _ = postJSON(t, s, "/api/command", CommandRequest{Command: "stop"})
	if code != 200 {
		t.Errorf("stop status = %d, want 200", code)
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	s := newTestServer(t)

	code, out := postJSON(t, s, "/api/command", CommandRequest{Command: "backflip"})
	if code != 400 {
		t.Errorf("status = %d, want 400", code)
	}
	if out["error"] == nil {
		t.Error("response should carry an error")
	}
}

func TestHandleCommand_Missing(t *testing.T) {
	s := newTestServer(t)

	code, _ := postJSON(t, s, "/api/command", map[string]string{})
	if code != 400 {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestHandleSay_NoInterpreter(t *testing.T) {
	s := newTestServer(t)

	code, _ := postJSON(t, s, "/api/say", SayRequest{Text: "go forward"})
	if code != 501 {
		t.Errorf("status = %d, want 501 when no interpreter is fitted", code)
	}
}

func TestHandleSay_EmptyText(t *testing.T) {
	s := newTestServer(t)

	code, _ := postJSON(t, s, "/api/say", SayRequest{})
	if code != 400 {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestHandleGetLogs(t *testing.T) {
	s := newTestServer(t)
	s.AddLog("info", "booted")
	postJSON(t, s, "/api/command", CommandRequest{Command: "stop"})

	req := httptest.NewRequest("GET", "/api/logs", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var entries []LogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("logs has %d entries, want >= 2", len(entries))
	}
	if entries[0].Message != "booted" || entries[0].Type != "info" {
		t.Errorf("first entry = %+v", entries[0])
	}
}

func TestLogRing(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < maxLogEntries+10; i++ {
		s.AddLog("info", "line")
	}
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	if len(s.logs) != maxLogEntries {
		t.Errorf("log buffer = %d entries, want capped at %d", len(s.logs), maxLogEntries)
	}
}

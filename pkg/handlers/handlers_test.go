package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/scorecard/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]int{"created": 4})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"created":4}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRespondError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	rec := httptest.NewRecorder()
	handlers.RespondError(rec, logger, http.StatusBadRequest, errors.New("unknown perspective"))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "unknown perspective" {
		t.Errorf("error = %q", body["error"])
	}
	if logs.Len() != 0 {
		t.Errorf("client error should not be logged: %s", logs.String())
	}

	handlers.RespondError(httptest.NewRecorder(), logger, http.StatusInternalServerError, errors.New("db down"))
	if !strings.Contains(logs.String(), "db down") {
		t.Errorf("server error should be logged: %s", logs.String())
	}
}

func TestRespondAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondAttachment(rec, "text/csv", "q1.csv", []byte("a,b\n"))

	if rec.Header().Get("Content-Disposition") != `attachment; filename="q1.csv"` {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Header().Get("Content-Length") != "4" || rec.Body.String() != "a,b\n" {
		t.Errorf("length = %s body = %q", rec.Header().Get("Content-Length"), rec.Body.String())
	}
}

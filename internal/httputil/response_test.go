package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func decodeError(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	return resp
}

func TestWriteValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidation(rec, "Comment content too long")

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	resp := decodeError(t, rec.Body.Bytes())
	if resp.Error.Code != ErrCodeValidation {
		t.Errorf("code = %q, want %q", resp.Error.Code, ErrCodeValidation)
	}
	if resp.Error.Message != "Comment content too long" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestWriteBadRequest_DistinctFromValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteBadRequest(rec, "Invalid comment ID")

	resp := decodeError(t, rec.Body.Bytes())
	if resp.Error.Code != ErrCodeBadRequest {
		t.Errorf("code = %q, want %q", resp.Error.Code, ErrCodeBadRequest)
	}
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 201, map[string]int{"id": 7})

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if rec.Code != 201 {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestWriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 204, nil)

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

package http

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/vovakirdan/msgboard/internal/service/messages"
)

type messageEnvelope struct {
	Message *MessageResponse `json:"message"`
}

type listEnvelope struct {
	Messages []MessageResponse `json:"messages"`
}

func TestCreateMessage(t *testing.T) {
	env := newTestEnv(t, messages.DefaultOptions())
	token := env.register(t, "alice")

	rec := env.do(t, http.MethodPost, "/messages", "", map[string]string{"text": "hello"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", rec.Code)
	}

	// user_id in the body must not override the caller.
	rec = env.do(t, http.MethodPost, "/messages", token, map[string]any{"text": "hello", "user_id": 999})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp messageEnvelope
	decode(t, rec, &resp)
	if resp.Message == nil || resp.Message.ID == "" {
		t.Fatalf("missing message in response: %s", rec.Body.String())
	}
	if resp.Message.UserID == 999 || resp.Message.Text != "hello" {
		t.Fatalf("unexpected message: %+v", resp.Message)
	}
	if resp.Message.Likes == nil || len(resp.Message.Likes) != 0 {
		t.Fatalf("expected empty likes, got %v", resp.Message.Likes)
	}
}

func TestCreateMessage_Validation(t *testing.T) {
	env := newTestEnv(t, messages.DefaultOptions())
	token := env.register(t, "alice")

	tests := []struct {
		name string
		body any
	}{
		{name: "missing text", body: map[string]string{}},
		{name: "blank text", body: map[string]string{"text": "   "}},
		{name: "too long", body: map[string]string{"text": strings.Repeat("x", 501)}},
		{name: "empty body", body: nil},
		{name: "text not a string", body: `{"text":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/messages", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var resp ValidationErrorResponse
			decode(t, rec, &resp)
			if len(resp.Errors) == 0 || resp.Errors[0].Field != "text" {
				t.Fatalf("expected text field error, got %+v", resp.Errors)
			}
		})
	}

	rec := env.do(t, http.MethodPost, "/messages", token, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", rec.Code)
	}
}

func TestListMessages_Pagination(t *testing.T) {
	env := newTestEnv(t, messages.Options{DefaultLimit: 3, MaxLimit: 4})
	token := env.register(t, "alice")

	for i := 0; i < 6; i++ {
		env.createMessage(t, token, fmt.Sprintf("msg %d", i))
	}

	tests := []struct {
		name      string
		query     string
		wantLen   int
		wantFirst string
	}{
		{name: "defaults", query: "", wantLen: 3, wantFirst: "msg 0"},
		{name: "limit and offset", query: "?limit=2&offset=1", wantLen: 2, wantFirst: "msg 1"},
		{name: "non-numeric falls back", query: "?limit=abc&offset=xyz", wantLen: 3, wantFirst: "msg 0"},
		{name: "negative offset", query: "?offset=-5", wantLen: 3, wantFirst: "msg 0"},
		{name: "capped limit", query: "?limit=1000", wantLen: 4, wantFirst: "msg 0"},
		{name: "offset past end", query: "?offset=10", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/messages"+tt.query, "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var resp listEnvelope
			decode(t, rec, &resp)
			if resp.Messages == nil {
				t.Fatalf("messages must be an array: %s", rec.Body.String())
			}
			if len(resp.Messages) != tt.wantLen {
				t.Fatalf("expected %d messages, got %d", tt.wantLen, len(resp.Messages))
			}
			if tt.wantLen > 0 && resp.Messages[0].Text != tt.wantFirst {
				t.Fatalf("expected first %q, got %q", tt.wantFirst, resp.Messages[0].Text)
			}
		})
	}
}

func TestGetMessage(t *testing.T) {
	env := newTestEnv(t, messages.DefaultOptions())
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	msg := env.createMessage(t, alice, "hello")
	if rec := env.do(t, http.MethodPost, "/messages/"+msg.ID+"/likes", bob, nil); rec.Code != http.StatusCreated {
		t.Fatalf("like: expected 201, got %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/messages/"+msg.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp messageEnvelope
	decode(t, rec, &resp)
	if resp.Message == nil || resp.Message.ID != msg.ID {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}
	if len(resp.Message.Likes) != 1 {
		t.Fatalf("expected one like, got %d", len(resp.Message.Likes))
	}

	rec = env.do(t, http.MethodGet, "/messages/does-not-exist", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("absent message: expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":null}` {
		t.Fatalf("absent message: unexpected body %s", got)
	}
}

func TestUpdateMessage(t *testing.T) {
	env := newTestEnv(t, messages.DefaultOptions())
	token := env.register(t, "alice")
	msg := env.createMessage(t, token, "hello")

	rec := env.do(t, http.MethodPatch, "/messages/"+msg.ID, token, map[string]string{"text": "edited"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Affected int64 `json:"affected"`
	}
	decode(t, rec, &resp)
	if resp.Affected != 1 {
		t.Fatalf("expected 1 affected, got %d", resp.Affected)
	}

	rec = env.do(t, http.MethodGet, "/messages/"+msg.ID, "", nil)
	var got messageEnvelope
	decode(t, rec, &got)
	if got.Message.Text != "edited" {
		t.Fatalf("expected edited text, got %q", got.Message.Text)
	}

	rec = env.do(t, http.MethodPatch, "/messages/missing", token, map[string]string{"text": "edited"})
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.Affected != 0 {
		t.Fatalf("missing message: expected 200 with 0 affected, got %d %d", rec.Code, resp.Affected)
	}

	rec = env.do(t, http.MethodPatch, "/messages/"+msg.ID, token, nil)
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.Affected != 0 {
		t.Fatalf("empty patch: expected 200 with 0 affected, got %d %d", rec.Code, resp.Affected)
	}

	rec = env.do(t, http.MethodPatch, "/messages/"+msg.ID, token, map[string]string{"text": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid patch: expected 400, got %d", rec.Code)
	}
	var verr ValidationErrorResponse
	decode(t, rec, &verr)
	if len(verr.Errors) != 1 || verr.Errors[0].Field != "text" {
		t.Fatalf("unexpected validation errors: %+v", verr.Errors)
	}

	rec = env.do(t, http.MethodPatch, "/messages/"+msg.ID, token, `{"text":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("mistyped patch: expected 400, got %d", rec.Code)
	}
	verr = ValidationErrorResponse{}
	decode(t, rec, &verr)
	if len(verr.Errors) != 1 || verr.Errors[0].Field != "text" {
		t.Fatalf("unexpected validation errors: %+v", verr.Errors)
	}

	rec = env.do(t, http.MethodPatch, "/messages/"+msg.ID, "", map[string]string{"text": "anon"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous patch: expected 401, got %d", rec.Code)
	}
}

func TestUpdateMessage_OwnerOnly(t *testing.T) {
	opts := messages.DefaultOptions()
	opts.UpdatePolicy = messages.UpdateOwnerOnly
	env := newTestEnv(t, opts)

	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	msg := env.createMessage(t, alice, "hello")

	rec := env.do(t, http.MethodPatch, "/messages/"+msg.ID, bob, map[string]string{"text": "hijacked"})
	var resp struct {
		Affected int64 `json:"affected"`
	}
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.Affected != 0 {
		t.Fatalf("foreign patch: expected 0 affected, got %d %d", rec.Code, resp.Affected)
	}
}

func TestDeleteMessage(t *testing.T) {
	env := newTestEnv(t, messages.DefaultOptions())
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	msg := env.createMessage(t, alice, "hello")
	if rec := env.do(t, http.MethodPost, "/messages/"+msg.ID+"/likes", bob, nil); rec.Code != http.StatusCreated {
		t.Fatalf("like: expected 201, got %d", rec.Code)
	}

	// Non-owner is told the message does not exist and nothing changes.
	rec := env.do(t, http.MethodDelete, "/messages/"+msg.ID, bob, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("foreign delete: expected 400, got %d", rec.Code)
	}
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	if errResp.Error != "Message does not exist" {
		t.Fatalf("unexpected error: %q", errResp.Error)
	}

	rec = env.do(t, http.MethodGet, "/messages/"+msg.ID, "", nil)
	var got messageEnvelope
	decode(t, rec, &got)
	if got.Message == nil || len(got.Message.Likes) != 1 {
		t.Fatalf("foreign delete must leave message and likes: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/messages/"+msg.ID, alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, rec, &resp)
	if resp.ID != msg.ID {
		t.Fatalf("expected id %s, got %s", msg.ID, resp.ID)
	}

	rec = env.do(t, http.MethodGet, "/messages/"+msg.ID, "", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":null}` {
		t.Fatalf("deleted message still readable: %s", got)
	}

	rec = env.do(t, http.MethodDelete, "/messages/"+msg.ID, alice, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("repeat delete: expected 400, got %d", rec.Code)
	}
}

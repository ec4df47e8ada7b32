package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"el-escriba-api/internal/core"
)

type recordedTurn struct {
	Message string           `json:"message"`
	File    *core.Attachment `json:"file"`
}

// chatStub records the turns it receives and answers with a fixed reply (or
// a 500 when failing is set).
type chatStub struct {
	turns   []recordedTurn
	reply   string
	failing bool
}

func (s *chatStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Login correcto", "username": "ana"})
	})
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Usuario registrado con éxito", "userId": "abc-123"})
	})
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		var turn recordedTurn
		if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
			t.Errorf("stub received invalid body: %v", err)
		}
		s.turns = append(s.turns, turn)
		if s.failing {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"reply": "Hubo un error al procesar tu solicitud."})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"reply": s.reply})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoginStoresUsername(t *testing.T) {
	stub := &chatStub{}
	c := New(stub.server(t).URL)

	if err := c.Login(context.Background(), "ana", "secreta123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !c.LoggedIn() || c.Username() != "ana" {
		t.Errorf("client did not store session username: %q", c.Username())
	}

	c.Logout()
	if c.LoggedIn() || c.PendingAttachment() != nil {
		t.Error("Logout must clear username and pending attachment")
	}
}

func TestAttachFileRejectionKeepsPending(t *testing.T) {
	stub := &chatStub{reply: "ok"}
	c := New(stub.server(t).URL)

	pdf := writeTempFile(t, "ensayo.pdf", "%PDF-1.4 contenido")
	if _, err := c.AttachFile(pdf); err != nil {
		t.Fatalf("AttachFile(pdf) failed: %v", err)
	}
	prior := c.PendingAttachment()
	if prior == nil || prior.Name != "ensayo.pdf" {
		t.Fatalf("pending attachment not set: %+v", prior)
	}

	txt := writeTempFile(t, "notas.txt", "solo texto")
	if _, err := c.AttachFile(txt); !errors.Is(err, core.ErrUnsupportedFileType) {
		t.Errorf("AttachFile(txt) = %v, want ErrUnsupportedFileType", err)
	}
	if c.PendingAttachment() != prior {
		t.Error("rejected file must leave the prior pending attachment unchanged")
	}
}

func TestAttachFileReplacesPending(t *testing.T) {
	stub := &chatStub{}
	c := New(stub.server(t).URL)

	first := writeTempFile(t, "primero.pdf", "%PDF-1.4 uno")
	second := writeTempFile(t, "segundo.pdf", "%PDF-1.4 dos")
	if _, err := c.AttachFile(first); err != nil {
		t.Fatalf("AttachFile failed: %v", err)
	}
	if _, err := c.AttachFile(second); err != nil {
		t.Fatalf("AttachFile failed: %v", err)
	}
	if got := c.PendingAttachment(); got == nil || got.Name != "segundo.pdf" {
		t.Errorf("pending = %+v, want segundo.pdf (exactly one pending at a time)", got)
	}
}

func TestSendClearsPendingAndFormatsOnce(t *testing.T) {
	stub := &chatStub{reply: "**Resumen**\n- uno\n"}
	c := New(stub.server(t).URL)

	pdf := writeTempFile(t, "ensayo.pdf", "%PDF-1.4 contenido")
	if _, err := c.AttachFile(pdf); err != nil {
		t.Fatalf("AttachFile failed: %v", err)
	}

	reply, err := c.Send(context.Background(), "Resume esto")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "<b>Resumen</b><br><li>uno</li>" {
		t.Errorf("reply not formatted exactly once: %q", reply)
	}
	if c.PendingAttachment() != nil {
		t.Error("Send must clear the pending attachment")
	}
	if len(stub.turns) != 1 || stub.turns[0].File == nil || stub.turns[0].Message != "Resume esto" {
		t.Errorf("server saw unexpected turn: %+v", stub.turns)
	}

	// The next turn must not carry the file again.
	if _, err := c.Send(context.Background(), "¿Y el tono?"); err != nil {
		t.Fatalf("second Send failed: %v", err)
	}
	if stub.turns[1].File != nil {
		t.Error("attachment was resent on a later turn")
	}
}

func TestSendClearsPendingOnFailureToo(t *testing.T) {
	stub := &chatStub{failing: true}
	c := New(stub.server(t).URL)

	pdf := writeTempFile(t, "ensayo.pdf", "%PDF-1.4 contenido")
	if _, err := c.AttachFile(pdf); err != nil {
		t.Fatalf("AttachFile failed: %v", err)
	}

	if _, err := c.Send(context.Background(), ""); err == nil {
		t.Fatal("Send against failing server should return an error")
	}
	if c.PendingAttachment() != nil {
		t.Error("a failed turn must still discard the attachment (user reattaches to retry)")
	}
}

func TestSendEmptyTurnNeverDispatched(t *testing.T) {
	stub := &chatStub{}
	c := New(stub.server(t).URL)

	if _, err := c.Send(context.Background(), "   "); !errors.Is(err, core.ErrEmptyTurn) {
		t.Errorf("Send with no content = %v, want ErrEmptyTurn", err)
	}
	if len(stub.turns) != 0 {
		t.Error("empty turn reached the server")
	}
}

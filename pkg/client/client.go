// Package client is the request/response glue a chat front end needs:
// credential calls, the single pending attachment, and one-shot reply
// formatting. It holds no conversation history; every send is one turn.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"el-escriba-api/internal/core"
	"el-escriba-api/internal/format"
)

type Client struct {
	baseURL  string
	http     *http.Client
	username string
	pending  *core.Attachment
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authReply struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Error    string `json:"error"`
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response body: %w", err)
	}
	return resp.StatusCode, nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	var reply authReply
	status, err := c.postJSON(ctx, "/register", credentialsBody{Username: username, Password: password}, &reply)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s", reply.Error)
	}
	return nil
}

// Login validates the credentials and remembers the username for the rest of
// this client session. No token is involved; Logout just clears local state.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var reply authReply
	status, err := c.postJSON(ctx, "/login", credentialsBody{Username: username, Password: password}, &reply)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s", reply.Error)
	}
	c.username = reply.Username
	return nil
}

func (c *Client) Username() string { return c.username }

func (c *Client) LoggedIn() bool { return c.username != "" }

func (c *Client) Logout() {
	c.username = ""
	c.pending = nil
}

// AttachFile reads and encodes a document as the pending attachment. A
// rejected file leaves any previously pending attachment untouched; an
// accepted one replaces it. At most one attachment is pending at a time.
func (c *Client) AttachFile(path string) (*core.Attachment, error) {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType != core.PDFMimeType {
		return nil, core.ErrUnsupportedFileType
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	att, err := core.EncodeAttachment(filepath.Base(path), mimeType, raw)
	if err != nil {
		return nil, err
	}
	c.pending = att
	return att, nil
}

func (c *Client) PendingAttachment() *core.Attachment { return c.pending }

type chatBody struct {
	Message string           `json:"message"`
	File    *core.Attachment `json:"file,omitempty"`
}

type chatReply struct {
	Reply string `json:"reply"`
}

// Send submits one turn and returns the reply as transcript markup. The
// pending attachment is snapshotted and cleared before dispatch, so a failed
// turn is not resubmittable without reattaching. The reply is formatted
// exactly once here; callers must not format it again.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" && c.pending == nil {
		return "", core.ErrEmptyTurn
	}

	fileToSend := c.pending
	c.pending = nil

	var reply chatReply
	status, err := c.postJSON(ctx, "/chat", chatBody{Message: message, File: fileToSend}, &reply)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%s", reply.Reply)
	}
	return format.FormatReply(reply.Reply), nil
}

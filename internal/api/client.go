// Package api is the one boundary of the application: a thin HTTP
// client for the remote notes API. It attaches the bearer credential,
// decodes the fixed response envelopes, and turns every failure into a
// typed *Error. It never retries and it holds no domain state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"noteapp-client/internal/domain"

	"github.com/google/uuid"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken arms or clears the bearer credential attached to every
// subsequent request. Only the session manager calls this; everything
// else just issues requests and inherits whatever is set.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Response envelopes. Fields are pointers so a payload that decodes
// but is missing its envelope key is detected as a shape mismatch
// instead of silently becoming an empty collection.
type notesEnvelope struct {
	Notes *[]domain.Note `json:"notes"`
}

type noteEnvelope struct {
	Note *domain.Note `json:"note"`
}

type sharesEnvelope struct {
	SharedNotes *[]domain.Share `json:"shared_notes"`
}

type uploadEnvelope struct {
	URL *string `json:"url"`
}

type errorEnvelope struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, req *domain.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/register", req, nil)
}

func (c *Client) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthPayload, error) {
	var payload domain.AuthPayload
	if err := c.do(ctx, http.MethodPost, "/login", req, &payload); err != nil {
		return nil, err
	}
	if payload.Token == "" {
		return nil, shapeError("login response is missing a token")
	}
	return &payload, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *Client) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var env notesEnvelope
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &env); err != nil {
		return nil, err
	}
	if env.Notes == nil {
		return nil, shapeError("notes response is missing the notes field")
	}
	return *env.Notes, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	var env noteEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil, &env); err != nil {
		return nil, err
	}
	if env.Note == nil {
		return nil, shapeError("note response is missing the note field")
	}
	return env.Note, nil
}

func (c *Client) CreateNote(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, error) {
	var env noteEnvelope
	if err := c.do(ctx, http.MethodPost, "/notes", req, &env); err != nil {
		return nil, err
	}
	if env.Note == nil {
		return nil, shapeError("note response is missing the note field")
	}
	return env.Note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int64, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	var env noteEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), req, &env); err != nil {
		return nil, err
	}
	if env.Note == nil {
		return nil, shapeError("note response is missing the note field")
	}
	return env.Note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil)
}

func (c *Client) ShareNote(ctx context.Context, noteID int64, req *domain.ShareRequest) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/notes/%d/share", noteID), req, nil)
}

func (c *Client) ListShares(ctx context.Context) ([]domain.Share, error) {
	var env sharesEnvelope
	if err := c.do(ctx, http.MethodGet, "/notes/shared", nil, &env); err != nil {
		return nil, err
	}
	if env.SharedNotes == nil {
		return nil, shapeError("shares response is missing the shared_notes field")
	}
	return *env.SharedNotes, nil
}

func (c *Client) RevokeShare(ctx context.Context, noteID, shareID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d/share/%d", noteID, shareID), nil, nil)
}

// Upload sends a file as multipart form data and returns the
// server-assigned URL for it.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", &Error{Kind: ErrorNetwork, Message: err.Error()}
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", &Error{Kind: ErrorNetwork, Message: err.Error()}
	}
	if err := writer.Close(); err != nil {
		return "", &Error{Kind: ErrorNetwork, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", &Error{Kind: ErrorNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", noResponseError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", errorFromResponse(resp)
	}

	var env uploadEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.URL == nil {
		return "", shapeError("upload response is missing the url field")
	}
	return *env.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: ErrorNetwork, Message: err.Error()}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: ErrorNetwork, Message: err.Error()}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return noResponseError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return shapeError("failed to decode response: " + err.Error())
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func errorFromResponse(resp *http.Response) error {
	kind := kindForStatus(resp.StatusCode)
	message := fallbackMessage(kind)

	var env errorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err == nil && env.Message != "" {
		message = env.Message
	}
	return &Error{Kind: kind, Message: message, StatusCode: resp.StatusCode}
}

func noResponseError(err error) error {
	return &Error{Kind: ErrorNetwork, Message: fallbackMessage(ErrorNetwork) + " (" + err.Error() + ")"}
}

func shapeError(message string) error {
	return &Error{Kind: ErrorServer, Message: message}
}

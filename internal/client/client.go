// Package client is a typed HTTP client for the check-in API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"event-checkin/internal/model"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx reply. Message is the server's "error" field when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 reply.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type UploadResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type ToggleResult struct {
	Message   string `json:"message"`
	CheckedIn bool   `json:"checkedIn"`
}

type messageReply struct {
	Message string `json:"message"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for baseURL (e.g. http://localhost:8080). A nil httpClient
// gets a default with a timeout. An empty token sends no Authorization header.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) ListEvents(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	if err := c.doJSON(ctx, http.MethodGet, "/api/event", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodGet, "/api/event/"+eventID.String(), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodPost, "/api/event", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/event/"+eventID.String(), nil, nil)
}

// UploadCSV sends r as the multipart "file" field named filename.
func (c *Client) UploadCSV(ctx context.Context, eventID uuid.UUID, filename string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var result UploadResult
	path := "/api/event/" + eventID.String() + "/upload-csv"
	if err := c.do(ctx, http.MethodPost, path, &body, w.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	var people []*model.Person
	if err := c.doJSON(ctx, http.MethodGet, "/api/event/"+eventID.String()+"/checked-in", nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) ListNotCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	var people []*model.Person
	if err := c.doJSON(ctx, http.MethodGet, "/api/event/"+eventID.String()+"/not-checked-in", nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) RemovePerson(ctx context.Context, eventID, personID uuid.UUID) (string, error) {
	var reply messageReply
	path := "/api/event/" + eventID.String() + "/person/" + personID.String()
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &reply); err != nil {
		return "", err
	}
	return reply.Message, nil
}

func (c *Client) Activity(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error) {
	path := "/api/event/" + eventID.String() + "/activity"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var activities []*model.CheckinActivity
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (c *Client) CheckIn(ctx context.Context, eventID, personID uuid.UUID) (string, error) {
	var reply messageReply
	path := "/api/checkin/" + eventID.String() + "/person/" + personID.String()
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &reply); err != nil {
		return "", err
	}
	return reply.Message, nil
}

func (c *Client) Toggle(ctx context.Context, eventID, personID uuid.UUID) (*ToggleResult, error) {
	var result ToggleResult
	path := "/api/checkin/" + eventID.String() + "/person/" + personID.String() + "/toggle"
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Status(ctx context.Context, eventID uuid.UUID) (*model.CheckInStatus, error) {
	var status model.CheckInStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/checkin/status/"+eventID.String(), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	if in == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var reply struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&reply) == nil {
			apiErr.Message = reply.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

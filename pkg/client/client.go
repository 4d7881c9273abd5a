package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medicalife/patient-api/internal/model"
)

// ErrUnsuccessful is returned when a 2xx response does not report success.
var ErrUnsuccessful = errors.New("server did not report success")

// APIError is a non-2xx answer from the patient API.
type APIError struct {
	StatusCode int
	// Message is the server's message field, empty when the body carried none.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("patient api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("patient api: status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Patient  *model.Patient   `json:"patient"`
	Patients []*model.Patient `json:"patients"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the default client's timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) List(ctx context.Context) ([]*model.Patient, error) {
	env, err := c.do(ctx, http.MethodGet, "/patient", nil)
	if err != nil {
		return nil, err
	}
	if env.Patients == nil {
		env.Patients = []*model.Patient{}
	}
	return env.Patients, nil
}

func (c *Client) Get(ctx context.Context, id string) (*model.Patient, error) {
	env, err := c.do(ctx, http.MethodGet, "/patient/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return env.Patient, nil
}

func (c *Client) Create(ctx context.Context, input *model.PatientInput) (*model.Patient, error) {
	env, err := c.do(ctx, http.MethodPost, "/patient", input)
	if err != nil {
		return nil, err
	}
	return env.Patient, nil
}

func (c *Client) Update(ctx context.Context, id string, input *model.PatientInput) (*model.Patient, error) {
	env, err := c.do(ctx, http.MethodPut, "/patient/"+url.PathEscape(id), input)
	if err != nil {
		return nil, err
	}
	return env.Patient, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/patient/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if !env.Success {
		return nil, ErrUnsuccessful
	}
	return &env, nil
}

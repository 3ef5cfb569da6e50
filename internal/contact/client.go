package contact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/model"
)

const (
	DefaultEndpoint = "https://formspree.io/f/mqaglzrb"
	DefaultTimeout  = 15 * time.Second

	// maxErrorBody caps how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrMissingField = errors.New("required field missing")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrSubmission   = errors.New("form submission failed")
)

// Submission is one contact form entry.
type Submission struct {
	Name    string
	Email   string
	Message string
}

// Validate checks that every field is filled in and the email parses.
func (s Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: name", ErrMissingField)
	case strings.TrimSpace(s.Email) == "":
		return fmt.Errorf("%w: email", ErrMissingField)
	case strings.TrimSpace(s.Message) == "":
		return fmt.Errorf("%w: message", ErrMissingField)
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, s.Email)
	}
	return nil
}

func (s Submission) form() url.Values {
	return url.Values{
		"name":    {s.Name},
		"email":   {s.Email},
		"message": {s.Message},
	}
}

// SubmissionError carries the message the form service gave for a rejected
// submission. It matches ErrSubmission with errors.Is.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrSubmission, e.StatusCode, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return ErrSubmission
}

// Result describes an accepted submission.
type Result struct {
	RequestID  string
	StatusCode int
}

// Params holds parameters for creating a Client.
type Params struct {
	Endpoint   string        // optional, DefaultEndpoint if empty
	Timeout    time.Duration // optional, DefaultTimeout if zero
	HTTPClient *http.Client  // optional
	Logger     *zap.Logger   // optional
}

// Client posts contact form submissions to a Formspree-style endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new contact form client.
func NewClient(params Params) *Client {
	c := &Client{
		endpoint:   params.Endpoint,
		httpClient: params.HTTPClient,
		logger:     params.Logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.httpClient == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Endpoint returns the URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit validates and posts a submission. A non-2xx answer returns a
// *SubmissionError.
func (c *Client) Submit(ctx context.Context, s Submission) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	requestID := model.GenerateUUID()
	c.logger.Info("form submission started",
		zap.String("request_id", requestID),
		zap.String("name", s.Name),
		zap.String("email", s.Email),
		zap.Int("message_length", len(s.Message)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(s.form().Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("form submission failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("post form: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Info("form response received",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Result{RequestID: requestID, StatusCode: resp.StatusCode}, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	subErr := &SubmissionError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	c.logger.Warn("form submission rejected",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.String("message", subErr.Message),
	)
	return nil, subErr
}

// errorMessage picks the most useful text from a failed response: the JSON
// "error" field, then "message", then the raw body when it is not JSON.
func errorMessage(body []byte) string {
	const fallback = "Form submission failed"

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		}
		return fallback
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}

package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

var (
	// ErrTwilioAccountSIDRequired is returned when the account SID is missing.
	ErrTwilioAccountSIDRequired = errors.New("sms: twilio account sid is required")
	// ErrTwilioAuthTokenRequired is returned when the auth token is missing.
	ErrTwilioAuthTokenRequired = errors.New("sms: twilio auth token is required")
	// ErrTwilioFromRequired is returned when the sender number is missing.
	ErrTwilioFromRequired = errors.New("sms: twilio from number is required")
)

// TwilioConfig configures the Twilio sender.
type TwilioConfig struct {
	// AccountSID identifies the Twilio account.
	AccountSID string

	// AuthToken authenticates requests against the Twilio API.
	AuthToken string

	// From is the sender phone number in E.164 format.
	From string

	// BaseURL overrides the Twilio API endpoint. Intended for tests.
	BaseURL string

	// Timeout bounds a single delivery request. Defaults to 10 seconds.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client. Intended for tests.
	HTTPClient *http.Client
}

// Twilio is a Sender backed by the Twilio Programmable Messaging API.
type Twilio struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

// NewTwilio constructs a Twilio sender.
func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	if cfg.AccountSID == "" {
		return nil, ErrTwilioAccountSIDRequired
	}
	if cfg.AuthToken == "" {
		return nil, ErrTwilioAuthTokenRequired
	}
	if cfg.From == "" {
		return nil, ErrTwilioFromRequired
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = twilioBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &Twilio{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		client:     client,
	}, nil
}

// Close implements io.Closer.
func (t *Twilio) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// Send delivers a message through the Twilio REST API.
func (t *Twilio) Send(ctx context.Context, msg Message) error {
	form := url.Values{}
	form.Set("To", msg.To)
	form.Set("From", t.from)
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}

	var apiErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if decErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); decErr == nil && apiErr.Message != "" {
		return fmt.Errorf("sms: twilio responded %d (code %d): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
	}

	return fmt.Errorf("sms: twilio responded %d", resp.StatusCode)
}

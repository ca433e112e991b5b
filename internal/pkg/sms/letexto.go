package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Delivery is bounded by this timeout; past it the send counts as failed.
const sendTimeout = 10 * time.Second

var ErrMissingConfig = errors.New("sms: letexto configuration missing")

// Client sends SMS through the Letexto HTTP API.
type Client struct {
	baseURL     string
	apiKey      string
	sender      string
	countryCode string
	http        *http.Client
}

func NewClient(baseURL, apiKey, sender, countryCode string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		sender:      sender,
		countryCode: countryCode,
		http:        &http.Client{Timeout: sendTimeout},
	}
}

// Send delivers a message to a national number; the country code is
// prepended here. A nil error means the gateway accepted the message.
func (c *Client) Send(ctx context.Context, phone, message string) error {
	if c.baseURL == "" || c.apiKey == "" {
		return ErrMissingConfig
	}
	if phone == "" || message == "" {
		return errors.New("sms: phone and message required")
	}

	q := url.Values{}
	q.Set("token", c.apiKey)
	q.Set("from", c.sender)
	q.Set("to", c.countryCode+phone)
	q.Set("content", message)

	endpoint := fmt.Sprintf("%s/messages/send?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms: letexto request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms: letexto returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

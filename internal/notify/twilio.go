package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string // https://api.twilio.com unless overridden
}

// Twilio sends SMS through the Messages REST resource. The subject is dropped.
type Twilio struct {
	cfg    TwilioConfig
	client *http.Client
}

func NewTwilio(cfg TwilioConfig, client *http.Client) *Twilio {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Twilio{cfg: cfg, client: client}
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *Twilio) Send(ctx context.Context, destination, _ string, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.cfg.BaseURL, url.PathEscape(t.cfg.AccountSID))
	form := url.Values{}
	form.Set("To", destination)
	form.Set("From", t.cfg.FromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var te twilioError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &te) == nil && te.Message != "" {
			return fmt.Errorf("twilio: status %d code %d: %s", resp.StatusCode, te.Code, te.Message)
		}
		return fmt.Errorf("twilio: status %d", resp.StatusCode)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

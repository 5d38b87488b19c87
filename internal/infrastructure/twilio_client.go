package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"intern_assistant/internal/entities"
)

const DefaultTwilioBaseURL = "https://api.twilio.com"

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
	Timeout    time.Duration
}

// TwilioClient sends WhatsApp messages through the Twilio Messages API.
type TwilioClient struct {
	cfg  TwilioConfig
	http *http.Client
}

func NewTwilioClient(cfg TwilioConfig) (*TwilioClient, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, fmt.Errorf("twilio credentials are incomplete: %w", entities.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTwilioBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &TwilioClient{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}, nil
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type twilioError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func (t *TwilioClient) Send(ctx context.Context, to, body string) (entities.DeliveryReceipt, error) {
	form := url.Values{}
	form.Set("From", withWhatsAppPrefix(t.cfg.FromNumber))
	form.Set("To", withWhatsAppPrefix(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(t.cfg.BaseURL, "/"), t.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "twilio", Err: err}
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "twilio", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "twilio", HTTPStatus: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr twilioError
		_ = json.Unmarshal(raw, &apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return entities.DeliveryReceipt{}, &entities.DeliveryError{
			Provider:   "twilio",
			Code:       apiErr.Code,
			Message:    msg,
			HTTPStatus: resp.StatusCode,
		}
	}

	var msg twilioMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "twilio", HTTPStatus: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return entities.DeliveryReceipt{
		ID:        msg.SID,
		Provider:  "twilio",
		Recipient: form.Get("To"),
		Status:    msg.Status,
	}, nil
}

func withWhatsAppPrefix(phone string) string {
	if strings.HasPrefix(phone, entities.WhatsAppPrefix) {
		return phone
	}
	return entities.WhatsAppPrefix + phone
}

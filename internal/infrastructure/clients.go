package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"intern_assistant/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const DefaultGraphBaseURL = "https://graph.facebook.com/v18.0"

// CloudAPIClient sends messages through the WhatsApp Business Cloud API.
type CloudAPIClient struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	http          *http.Client
}

func NewCloudAPIClient(accessToken, phoneNumberID, baseURL string) (*CloudAPIClient, error) {
	if accessToken == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp cloud credentials are incomplete: %w", entities.ErrNotConfigured)
	}
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &CloudAPIClient{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type graphSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (w *CloudAPIClient) Send(ctx context.Context, to, content string) (entities.DeliveryReceipt, error) {
	recipient := strings.TrimPrefix(entities.NormalizePhone(to), "+")
	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                recipient,
		"type":              "text",
		"text": map[string]string{
			"body": content,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "whatsapp_cloud", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "whatsapp_cloud", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "whatsapp_cloud", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "whatsapp_cloud", HTTPStatus: resp.StatusCode, Err: err}
	}

	var out graphSendResponse
	decodeErr := json.Unmarshal(raw, &out)
	if decodeErr != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{
			Provider:   "whatsapp_cloud",
			HTTPStatus: resp.StatusCode,
			Message:    "unreadable send response",
			Err:        decodeErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || out.Error != nil {
		derr := &entities.DeliveryError{Provider: "whatsapp_cloud", HTTPStatus: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if out.Error != nil {
			derr.Code = out.Error.Code
			derr.Message = out.Error.Message
		}
		return entities.DeliveryReceipt{}, derr
	}

	receipt := entities.DeliveryReceipt{Provider: "whatsapp_cloud", Recipient: recipient, Status: "accepted"}
	if len(out.Messages) > 0 {
		receipt.ID = out.Messages[0].ID
	}
	return receipt, nil
}

// TelegramAlerter posts operator alerts into a coordinators' Telegram chat.
type TelegramAlerter struct {
	Bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramAlerter(token string, chatID int64) (*TelegramAlerter, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram alerts: %w", entities.ErrNotConfigured)
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot token issue: %w", err)
	}
	return &TelegramAlerter{Bot: bot, chatID: chatID}, nil
}

func (t *TelegramAlerter) Alert(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	_, err := t.Bot.Send(msg)
	return err
}

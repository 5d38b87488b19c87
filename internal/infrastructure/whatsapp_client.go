package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"intern_assistant/internal/entities"

	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// WhatsAppClient delivers replies from a linked WhatsApp device. The device
// session lives in a local SQLite store; the first run needs a QR pairing.
type WhatsAppClient struct {
	Client *whatsmeow.Client
	logger zerolog.Logger

	qrCode string
	qrLock sync.RWMutex
}

func NewWhatsAppClient(ctx context.Context, dbPath string, logger zerolog.Logger) (*WhatsAppClient, error) {
	dbLog := waLog.Zerolog(logger.With().Str("module", "whatsmeow-db").Logger())
	container, err := sqlstore.New(ctx, "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	clientLog := waLog.Zerolog(logger.With().Str("module", "whatsmeow").Logger())
	return &WhatsAppClient{
		Client: whatsmeow.NewClient(deviceStore, clientLog),
		logger: logger.With().Str("component", "whatsapp").Logger(),
	}, nil
}

// Connect opens the websocket. Without a stored session it starts the QR
// pairing flow; the latest code is available through GetQR.
func (w *WhatsAppClient) Connect(ctx context.Context) error {
	if w.Client.Store.ID != nil {
		if err := w.Client.Connect(); err != nil {
			return err
		}
		w.logger.Info().Msg("whatsapp connected (existing session)")
		return nil
	}

	qrChan, err := w.Client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get QR channel: %w", err)
	}
	if err := w.Client.Connect(); err != nil {
		return err
	}

	go func() {
		for evt := range qrChan {
			if evt.Event == "code" {
				w.qrLock.Lock()
				w.qrCode = evt.Code
				w.qrLock.Unlock()
				w.logger.Info().Msg("new pairing QR code available")
			} else {
				w.qrLock.Lock()
				w.qrCode = ""
				w.qrLock.Unlock()
				w.logger.Info().Str("event", evt.Event).Msg("pairing event")
			}
		}
	}()
	return nil
}

func (w *WhatsAppClient) GetQR() string {
	w.qrLock.RLock()
	defer w.qrLock.RUnlock()
	return w.qrCode
}

func (w *WhatsAppClient) IsLoggedIn() bool {
	return w.Client.Store.ID != nil
}

// GetUserInfo returns the linked device's phone number and push name.
func (w *WhatsAppClient) GetUserInfo() (string, string) {
	if w.Client.Store.ID == nil {
		return "", ""
	}
	return w.Client.Store.ID.User, w.Client.Store.PushName
}

func (w *WhatsAppClient) Disconnect() {
	w.Client.Disconnect()
}

func (w *WhatsAppClient) Send(ctx context.Context, to, content string) (entities.DeliveryReceipt, error) {
	user := strings.TrimPrefix(entities.NormalizePhone(to), "+")
	if user == "" {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{
			Provider: "whatsmeow", Code: entities.DeliveryCodeInvalidRecipient, Message: "empty recipient",
		}
	}
	if !w.Client.IsConnected() || w.Client.Store.ID == nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "whatsmeow", Message: "device not connected"}
	}

	jid := types.NewJID(user, types.DefaultUserServer)
	resp, err := w.Client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: &content,
	})
	if err != nil {
		return entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "whatsmeow", Err: err}
	}

	return entities.DeliveryReceipt{
		ID:        resp.ID,
		Provider:  "whatsmeow",
		Recipient: jid.String(),
		Status:    "sent",
	}, nil
}

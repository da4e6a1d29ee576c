package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cheeze-hyeon/alog/internal/utils"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
	baseURL     string
	client      *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		baseURL:     "https://api.telegram.org",
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Debug().Str("component", "telegram").Msg("bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Debug().Str("component", "telegram").Msg("admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// ReceiptNotification contains checkout data for the store chat.
type ReceiptNotification struct {
	ReceiptID      int64
	CustomerName   string
	TotalAmount    int64
	Items          []ReceiptItemNotification
	CO2ReductionKg float64
	LevelName      string
}

// ReceiptItemNotification is one line of a checkout notification.
type ReceiptItemNotification struct {
	Name     string
	Quantity float64
	Unit     string
	Price    int64
}

// FormatReceiptMessage renders the HTML message for a checkout. Names are
// escaped since Telegram rejects messages with unbalanced tags.
func FormatReceiptMessage(n ReceiptNotification) string {
	var itemsList strings.Builder
	for i, item := range n.Items {
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b> %s%s = %s\n",
			i+1,
			html.EscapeString(item.Name),
			utils.FormatDecimal(item.Quantity, 0),
			item.Unit,
			utils.FormatWon(item.Price),
		))
	}

	customer := html.EscapeString(n.CustomerName)
	if customer == "" {
		customer = "비회원"
	}

	message := fmt.Sprintf(`<b>🧾 새 영수증 #%d</b>
<b>👤 고객:</b> %s
<b>📦 상품:</b>
%s
<b>💰 합계:</b> %s
<b>🌍 탄소 절감:</b> %skg CO2
<b>🌱 레벨:</b> %s
━━━━━━━━━━━━━━━━━━`,
		n.ReceiptID,
		customer,
		itemsList.String(),
		utils.FormatWon(n.TotalAmount),
		utils.FormatDecimal(n.CO2ReductionKg, 2),
		html.EscapeString(n.LevelName),
	)

	return strings.TrimSpace(message)
}

// NotifyNewReceipt sends a checkout summary to the admin chat.
func (s *TelegramService) NotifyNewReceipt(n ReceiptNotification) error {
	if s.adminChatID == "" {
		return nil
	}
	return s.SendToAdmin(FormatReceiptMessage(n))
}

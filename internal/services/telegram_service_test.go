package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReceiptMessage(t *testing.T) {
	msg := FormatReceiptMessage(ReceiptNotification{
		ReceiptID:   17,
		TotalAmount: 16500,
		Items: []ReceiptItemNotification{
			{Name: "샴푸 리필", Quantity: 250, Unit: "g", Price: 7500},
			{Name: "고체 치약", Quantity: 2, Unit: "ea", Price: 9000},
		},
		CO2ReductionKg: 0.09405,
		LevelName:      "꼬마알맹 Lv.1",
	})

	assert.Contains(t, msg, "#17")
	assert.Contains(t, msg, "비회원")
	assert.Contains(t, msg, "16,500원")
	assert.Contains(t, msg, "1. <b>샴푸 리필</b> 250g = 7,500원")
	assert.Contains(t, msg, "0.09kg")
}

func TestFormatReceiptMessage_EscapesNames(t *testing.T) {
	msg := FormatReceiptMessage(ReceiptNotification{
		ReceiptID:    18,
		CustomerName: "<지구>&지킴이",
		Items: []ReceiptItemNotification{
			{Name: "샴푸 <대용량>", Quantity: 100, Unit: "g", Price: 3000},
		},
	})

	assert.Contains(t, msg, "&lt;지구&gt;&amp;지킴이")
	assert.Contains(t, msg, "<b>샴푸 &lt;대용량&gt;</b>")
	assert.NotContains(t, msg, "<지구>")
	assert.NotContains(t, msg, "<대용량>")
}

func TestTelegramService_SendToAdmin(t *testing.T) {
	var got telegramMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	t.Cleanup(srv.Close)

	svc := NewTelegramService("token", "chat-1")
	svc.baseURL = srv.URL

	require.NoError(t, svc.SendToAdmin("hello"))
	assert.Equal(t, "chat-1", got.ChatID)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "HTML", got.ParseMode)
}

func TestTelegramService_Unconfigured(t *testing.T) {
	svc := NewTelegramService("", "")
	assert.NoError(t, svc.NotifyNewReceipt(ReceiptNotification{ReceiptID: 1}))
}

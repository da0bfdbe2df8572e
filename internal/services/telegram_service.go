package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService sends order notifications to the shop's admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// OrderNotification contains order data for an admin notification.
type OrderNotification struct {
	OrderNumber   string
	Items         []OrderItemNotification
	TotalAmount   float64
	Currency      string
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	Status        string
}

// OrderItemNotification contains one purchased line.
type OrderItemNotification struct {
	Name     string
	Quantity int
	Price    float64
}

// NotifyNewOrder sends a new-order summary to the admin chat.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>New order %s</b>\n", order.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.CustomerName, order.CustomerPhone)
	fmt.Fprintf(&b, "Payment: %s, status: %s\n\n", order.PaymentMethod, order.Status)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x%d - %s\n", item.Name, item.Quantity, FormatPrice(item.Price, order.Currency))
	}
	fmt.Fprintf(&b, "\nTotal: %s", FormatPrice(order.TotalAmount, order.Currency))

	return s.SendToAdmin(b.String())
}

// FormatPrice formats a price with thousand separators and a currency tag.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "PHP"
	}

	str := fmt.Sprintf("%d", int64(amount))

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String() + " " + strings.ToUpper(currency)
}

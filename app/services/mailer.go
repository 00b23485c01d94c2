package services

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/utils/format"
)

// EmailSender sends one HTML email.
type EmailSender interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Enabled reports whether enough is configured to reach an SMTP server.
func (c Config) Enabled() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

type Mailer struct {
	config Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := [][2]string{
		{"From", m.config.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}

	var msg strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], h[1])
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func BuildOrderConfirmationBody(storeName string, order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(item.ProductName), item.Qty, format.FormatRupee(item.LineTotal))
	}

	name := ""
	if order.Customer != nil {
		name = order.Customer.FullName
	}

	cod := ""
	if order.CODFee.IsPositive() {
		cod = fmt.Sprintf("<p>COD fee: %s</p>", format.FormatRupee(order.CODFee))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Order %[2]s</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you for your order, %[3]s!</h2>
  <p>Your order number is <strong>%[2]s</strong>.</p>
  <table cellpadding="6">
    <tr><th align="left">Item</th><th>Qty</th><th>Total</th></tr>
    %[4]s
  </table>
  <p>Subtotal: %[5]s</p>
  <p>Tax: %[6]s</p>
  <p>Delivery: %[7]s</p>
  %[8]s
  <p><strong>Grand total: %[9]s</strong></p>
  <p>%[1]s</p>
</body>
</html>`,
		html.EscapeString(storeName),
		html.EscapeString(order.OrderNumber),
		html.EscapeString(name),
		rows.String(),
		format.FormatRupee(order.Subtotal),
		format.FormatRupee(order.TaxAmount),
		deliveryLabel(order),
		cod,
		format.FormatRupee(order.Total),
	)
}

func deliveryLabel(order *models.Order) string {
	if order.ShippingFee.IsZero() {
		return "FREE"
	}
	return format.FormatRupee(order.ShippingFee)
}

func BuildContactNotificationBody(msg *models.ContactMessage) string {
	phone := "-"
	if msg.Phone != nil && *msg.Phone != "" {
		phone = *msg.Phone
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h3>%s</h3>
  <p><strong>From:</strong> %s &lt;%s&gt;</p>
  <p><strong>Phone:</strong> %s</p>
  <p>%s</p>
</body>
</html>`,
		html.EscapeString(msg.Subject),
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(phone),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)
}

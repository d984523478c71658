package services

import (
	"fmt"
	"strconv"
	"strings"

	"shop_backend/app/models"
	"shop_backend/app/utils/format"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	port, err := strconv.Atoi(m.config.Port)
	if err != nil {
		return fmt.Errorf("invalid mail port %q: %w", m.config.Port, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.config.Host, port, m.config.Username, m.config.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) SendOrderConfirmation(to string, order *models.Order) error {
	subject := "Order confirmation #" + order.ID
	return m.SendHTMLEmail(to, subject, BuildOrderConfirmationBody(order))
}

func BuildOrderConfirmationBody(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(
			`<tr><td>%d</td><td>%d</td><td>%s</td></tr>`,
			item.ItemID, item.Quantity, format.VND(item.Price)))
	}

	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head><meta charset="utf-8"><title>Order confirmation</title></head>
        <body>
            <h2>Thank you for your order!</h2>
            <p>Order <strong>%s</strong> has been received and is pending confirmation.</p>
            <p>Recipient: %s — %s<br>%s</p>
            <table border="1" cellpadding="6" cellspacing="0">
                <tr><th>Item</th><th>Qty</th><th>Unit price</th></tr>
                %s
            </table>
            <p>Voucher discount: %s</p>
            <p><strong>Total: %s</strong></p>
        </body>
        </html>`,
		order.ID,
		order.RecipientName, order.RecipientPhone, order.RecipientAddress,
		rows.String(),
		format.VND(order.VoucherPrice),
		format.VND(order.TotalPrice),
	)
}

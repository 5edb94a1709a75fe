package services

import (
	"fmt"

	"procure-app/config"

	"gopkg.in/gomail.v2"
)

// Notifier sends review-decision emails. Delivery is best effort: a
// failed send is logged by the caller and never blocks the request.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) SendReviewNotification(toEmails []string, requestNumber, decision, notes string) error {
	if config.SMTPHost == "" || len(toEmails) == 0 {
		return nil
	}

	subject := fmt.Sprintf("📋 Cost Comparison %s - Request %s", decision, requestNumber)
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Cost comparison %s</h3>
				<p>Request Number: <strong>%s</strong></p>
				<p>Notes: %s</p>
				<p>This is an auto-generated email. Please do not reply to this email or its recipients.</p>
			</body>
		</html>
	`, decision, requestNumber, notes)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	return dialer.DialAndSend(msg)
}

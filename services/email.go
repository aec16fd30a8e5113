package services

import (
	"fmt"
	"strconv"

	"course-payments/config"
	"course-payments/logger"

	"gopkg.in/gomail.v2"
)

// SendEmailDirect sends email directly via SMTP
func SendEmailDirect(to, subject, body string, attachment ...string) error {
	logger.Info("Sending email via SMTP - Recipient: %s", to)

	m := gomail.NewMessage()

	from := config.AppConfig.EmailFrom
	if from == "" {
		from = config.AppConfig.SMTPUser
	}
	if from == "" {
		return fmt.Errorf("email sender not configured (set EMAIL_FROM or SMTP_USER)")
	}

	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if len(attachment) > 0 {
		m.Attach(attachment[0])
	}

	port := 587
	if p := config.AppConfig.SMTPPort; p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	if config.AppConfig.SMTPUser == "" || config.AppConfig.SMTPPass == "" {
		return fmt.Errorf("smtp credentials not configured (set SMTP_USER and SMTP_PASS)")
	}

	d := gomail.NewDialer(config.AppConfig.SMTPHost, port, config.AppConfig.SMTPUser, config.AppConfig.SMTPPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email successfully sent to: %s", to)
	return nil
}

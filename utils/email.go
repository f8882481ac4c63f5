package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func smtpConfig() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendEmail sends an HTML email
func SendEmail(to, subject, body string) error {
	config := smtpConfig()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendOTP sends a registration OTP via email
func SendOTP(to, otp string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to Motoria!</h2>
		<p>Thank you for registering. Please use the following OTP to verify your email address:</p>
		<h1 style="color: #1a73e8; font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This OTP will expire in 15 minutes.</p>
		<p>If you didn't request this OTP, please ignore this email.</p>
	`, otp)
	return SendEmail(to, "Your Motoria Registration OTP", body)
}

// SendMessageNotification notifies a user about a new message on their listing
func SendMessageNotification(to, listingTitle string) error {
	body := fmt.Sprintf(`
		<h2>You have a new message</h2>
		<p>Someone sent you a message about your listing <b>%s</b>.</p>
		<p>Log in to Motoria to read and reply.</p>
	`, listingTitle)
	return SendEmail(to, "New message about your listing", body)
}

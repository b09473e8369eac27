// Package notify implements the delivery channels reminders go out on.
package notify

import "gopkg.in/gomail.v2"

// EmailSender delivers reminder mail over SMTP.
type EmailSender struct {
	dialer *gomail.Dialer
}

func NewEmailSender(host string, port int, username, password string) *EmailSender {
	return &EmailSender{dialer: gomail.NewDialer(host, port, username, password)}
}

func (e *EmailSender) Send(to, subject, text string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.dialer.Username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", "<p>"+text+"</p>")
	return e.dialer.DialAndSend(m)
}

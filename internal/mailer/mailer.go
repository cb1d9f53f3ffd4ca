// Package mailer sends templated e-mail over SMTP.
package mailer

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"gopkg.in/mail.v2"
)

//go:embed "templates"
var templateFS embed.FS

// Mailer contains a mail.Dialer instance used to connect to an SMTP server
// and the sender information for emails, such as
// "Local Library <no-reply@locallibrary.local>".
type Mailer struct {
	dialer  *mail.Dialer
	sender  string
	retries int
}

// New initializes a new mail.Dialer instance with the given SMTP server
// settings and a 5-second timeout.
func New(host string, port int, username, password, sender string) Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second
	return Mailer{
		dialer:  dialer,
		sender:  sender,
		retries: 3,
	}
}

type message struct {
	subject, plainBody, htmlBody string
}

// render executes the subject, plainBody and htmlBody templates defined in
// templateFile.
func render(templateFile string, data any) (message, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return message{}, err
	}
	var msg message
	for name, dst := range map[string]*string{
		"subject":   &msg.subject,
		"plainBody": &msg.plainBody,
		"htmlBody":  &msg.htmlBody,
	} {
		buf := new(bytes.Buffer)
		err = tmpl.ExecuteTemplate(buf, name, data)
		if err != nil {
			return message{}, err
		}
		*dst = buf.String()
	}
	return msg, nil
}

// Send renders templateFile with data and mails it to recipient, trying up
// to three times.
func (m Mailer) Send(recipient, templateFile string, data any) error {
	rendered, err := render(templateFile, data)
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", rendered.subject)
	msg.SetBody("text/plain", rendered.plainBody)
	msg.AddAlternative("text/html", rendered.htmlBody)
	for i := 1; i <= m.retries; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return err
}

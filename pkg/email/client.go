package email

import (
	"time"

	"gopkg.in/mail.v2"
)

// Client is the SMTP delivery channel. The dispatcher only sees
// success/failure; a dial or send beyond the timeout counts as failure.
type Client struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
	timeout  time.Duration
}

func NewClient(smtpHost string, smtpPort int, username, password, from string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
		timeout:  timeout,
	}
}

func (c *Client) Send(to, subject, textBody, htmlBody string) error {
	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)

	message.SetBody("text/plain", textBody)
	if htmlBody != "" {
		message.AddAlternative("text/html", htmlBody)
	}

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)
	dialer.Timeout = c.timeout

	return dialer.DialAndSend(message)
}

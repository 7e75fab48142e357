package mailer

import (
	"gopkg.in/gomail.v2"
)

type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
}

// Mailer sends owner notifications over SMTP.
type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendListingPublishedEmail tells the owner their listing is live.
func (m *Mailer) SendListingPublishedEmail(toEmail, listingTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SenderEmail)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your listing is published")
	msg.SetBody("text/plain", "Your listing '"+listingTitle+"' is now live and visible to everyone.")

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}

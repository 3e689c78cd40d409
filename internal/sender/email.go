package sender

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	texttemplate "text/template"

	"fender-store/config"

	gopkgmail "gopkg.in/gomail.v2"
)

// Notification письмо, собираемое из пары шаблонов <Template>.html и <Template>.txt
type Notification struct {
	To       string
	Subject  string
	Template string
	Data     any
}

type EmailSender struct {
	cfg  *config.Notifier
	send func(m *gopkgmail.Message) error
}

func NewEmailSender(cfg *config.Notifier) *EmailSender {
	s := &EmailSender{cfg: cfg}
	s.send = func(m *gopkgmail.Message) error {
		d := gopkgmail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
		d.SSL = cfg.SMTPPort == 465
		return d.DialAndSend(m)
	}
	return s
}

func (s *EmailSender) SendEmail(n Notification) error {
	htmlBody, err := s.renderHTML(n.Template, n.Data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	plainBody, err := s.renderPlain(n.Template, n.Data)
	if err != nil {
		return fmt.Errorf("render plain: %w", err)
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	return s.send(m)
}

func (s *EmailSender) renderHTML(name string, data any) (string, error) {
	tmpl, err := htmltemplate.ParseFiles(filepath.Join(s.cfg.TMPLDir, name+".html"))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// текстовая версия без html-экранирования
func (s *EmailSender) renderPlain(name string, data any) (string, error) {
	content, err := os.ReadFile(filepath.Join(s.cfg.TMPLDir, name+".txt"))
	if err != nil {
		return "", err
	}
	tmpl, err := texttemplate.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package mailing

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/go-mail/mail"
	"github.com/jaytaylor/html2text"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/i18n"
	"github.com/shoecreatify/shoecreatify-api/sanitize"
	"go.uber.org/zap"
)

// Transport delivers a composed email
type Transport interface {
	Send(to string, subject string, htmlBody string, textBody string) error
}

type smtpTransport struct {
	dialer *mail.Dialer
	from   string
	name   string
}

func (s *smtpTransport) Send(to string, subject string, htmlBody string, textBody string) error {
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.name)
	msg.SetAddressHeader("To", to, "")
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)
	return s.dialer.DialAndSend(msg)
}

// NewSMTPTransport returns a transport for the configured smtp relay
func NewSMTPTransport(cfg *config.SMTPConfiguration) Transport {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = 15 * time.Second
	return &smtpTransport{dialer: d, from: cfg.Address, name: cfg.DisplayName}
}

type noopTransport struct {
	log *zap.Logger
}

func (n *noopTransport) Send(to string, subject string, htmlBody string, textBody string) error {
	n.log.Info("skipping email because smtp is disabled",
		sanitize.MaskedEmail("to", to),
		zap.String("subject", subject))
	return nil
}

// Recipient identifies who an email is addressed to
type Recipient struct {
	Email  string
	Name   string
	Locale string
}

type detail struct {
	Label string
	Value string
}

// Mailer composes localized emails and hands them to a transport
type Mailer struct {
	transport     Transport
	log           *zap.Logger
	cfg           *config.BehaviourConfiguration
	registry      *i18n.TranslationRegistry
	emailTemplate *template.Template
	now           func() time.Time
}

func (m *Mailer) translator(locale string) (*i18n.Translator, error) {
	t, err := m.registry.TranslatorFor(locale, "email")
	if err == nil {
		return t, nil
	}
	m.log.Warn("[i18n] falling back to default locale",
		zap.String("language", locale),
		zap.String("default", m.cfg.DefaultLocale))
	return m.registry.TranslatorFor(m.cfg.DefaultLocale, "email")
}

func (m *Mailer) baseModel(t *i18n.Translator, section string, name string) map[string]interface{} {
	data := map[string]string{
		"Site":    m.cfg.Name,
		"Name":    name,
		"Minutes": fmt.Sprintf("%d", int(m.cfg.OTPExpiry.Minutes())),
	}
	b := make(map[string]interface{})
	b["lang"] = t.Locale()
	b["service_name"] = m.cfg.Name
	b["date"] = m.now().UTC().Format("2006-01-02 15:04 MST")
	b["subject"] = t.TD(data, section, "subject")
	b["title"] = t.TD(data, section, "title")
	b["greeting"] = t.TD(data, section, "greeting")
	b["message"] = t.TD(data, section, "message")
	b["footer"] = t.TD(data, section, "footer")
	return b
}

func (m *Mailer) frontendLink(path string, query url.Values) string {
	base := strings.TrimRight(m.cfg.FrontendURL, "/")
	if len(query) == 0 {
		return base + path
	}
	return base + path + "?" + query.Encode()
}

// SendVerificationOTP sends the registration code and the fallback verification link
func (m *Mailer) SendVerificationOTP(to Recipient, otp string, linkToken string) error {
	t, err := m.translator(to.Locale)
	if err != nil {
		return err
	}
	base := m.baseModel(t, "verification", to.Name)
	base["code"] = otp
	base["code_text"] = t.T("verification", "code_text")
	if linkToken != "" {
		base["link"] = m.frontendLink("/verify-email", url.Values{
			"email": []string{to.Email},
			"token": []string{linkToken},
		})
		base["link_text"] = t.T("verification", "link_text")
	}
	return m.send(to.Email, base)
}

// SendWelcome greets a freshly verified account
func (m *Mailer) SendWelcome(to Recipient) error {
	t, err := m.translator(to.Locale)
	if err != nil {
		return err
	}
	base := m.baseModel(t, "welcome", to.Name)
	base["link"] = m.frontendLink("/", nil)
	base["link_text"] = t.TD(map[string]string{"Site": m.cfg.Name}, "welcome", "link_text")
	return m.send(to.Email, base)
}

// SendLoginAlert informs about a successful sign in
func (m *Mailer) SendLoginAlert(to Recipient, ip string, userAgent string, at time.Time) error {
	t, err := m.translator(to.Locale)
	if err != nil {
		return err
	}
	base := m.baseModel(t, "login_alert", to.Name)
	base["details"] = []detail{
		{Label: t.T("login_alert", "ip"), Value: ip},
		{Label: t.T("login_alert", "device"), Value: userAgent},
		{Label: t.T("login_alert", "time"), Value: at.UTC().Format(time.RFC1123)},
	}
	return m.send(to.Email, base)
}

// SendPasswordResetOTP sends the password reset code
func (m *Mailer) SendPasswordResetOTP(to Recipient, otp string) error {
	t, err := m.translator(to.Locale)
	if err != nil {
		return err
	}
	base := m.baseModel(t, "reset_password", to.Name)
	base["code"] = otp
	base["code_text"] = t.T("reset_password", "code_text")
	return m.send(to.Email, base)
}

// SendPasswordChanged confirms a completed password reset
func (m *Mailer) SendPasswordChanged(to Recipient) error {
	t, err := m.translator(to.Locale)
	if err != nil {
		return err
	}
	return m.send(to.Email, m.baseModel(t, "password_changed", to.Name))
}

// SendTestEmail is used by the cli to verify the smtp settings
func (m *Mailer) SendTestEmail(email string) error {
	t, err := m.translator(m.cfg.DefaultLocale)
	if err != nil {
		return err
	}
	return m.send(email, m.baseModel(t, "test", ""))
}

// render returns the html and plain text bodies for a view model
func (m *Mailer) render(viewModel map[string]interface{}) (string, string, error) {
	buffer := new(strings.Builder)
	if err := m.emailTemplate.Execute(buffer, viewModel); err != nil {
		return "", "", err
	}
	html := buffer.String()
	text, err := html2text.FromString(html, html2text.Options{PrettyTables: true})
	if err != nil {
		return "", "", err
	}
	return html, text, nil
}

func (m *Mailer) send(email string, viewModel map[string]interface{}) error {
	html, text, err := m.render(viewModel)
	if err != nil {
		m.log.Error("unable to render email", zap.Error(err))
		return err
	}
	return m.transport.Send(email, viewModel["subject"].(string), html, text)
}

// NewMailer creates a mailer, the transport is smtp when enabled and a logging noop otherwise
func NewMailer(
	log *zap.Logger,
	cfg *config.Configuration,
	registry *i18n.TranslationRegistry,
	files fs.FS,
) (*Mailer, error) {
	var transport Transport
	if cfg.SMTP.Enabled {
		transport = NewSMTPTransport(cfg.SMTP)
	} else {
		transport = &noopTransport{log: log}
	}
	return NewMailerWithTransport(log, cfg.Behaviour, registry, files, transport)
}

// NewMailerWithTransport creates a mailer using the supplied transport
func NewMailerWithTransport(
	log *zap.Logger,
	cfg *config.BehaviourConfiguration,
	registry *i18n.TranslationRegistry,
	files fs.FS,
	transport Transport,
) (*Mailer, error) {
	t, err := template.ParseFS(files, "templates/email/template.html")
	if err != nil {
		return nil, err
	}
	return &Mailer{
		transport:     transport,
		log:           log,
		cfg:           cfg,
		registry:      registry,
		emailTemplate: t,
		now:           time.Now,
	}, nil
}

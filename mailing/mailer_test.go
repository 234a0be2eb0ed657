package mailing

import (
	"os"
	"testing"
	"time"

	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type sentMail struct {
	to, subject, html, text string
}

type recordingTransport struct {
	sent []sentMail
}

func (r *recordingTransport) Send(to string, subject string, htmlBody string, textBody string) error {
	r.sent = append(r.sent, sentMail{to, subject, htmlBody, textBody})
	return nil
}

func newTestMailer(t *testing.T) (*Mailer, *recordingTransport) {
	files := os.DirFS("..")
	log := zaptest.NewLogger(t)
	registry, err := i18n.NewTranslationRegistry(files, log)
	require.NoError(t, err)
	transport := &recordingTransport{}
	m, err := NewMailerWithTransport(log, &config.BehaviourConfiguration{
		Name:          "shoecreatify",
		FrontendURL:   "https://shoecreatify.local/",
		DefaultLocale: "en",
		OTPExpiry:     10 * time.Minute,
	}, registry, files, transport)
	require.NoError(t, err)
	return m, transport
}

func TestSendVerificationOTP(t *testing.T) {
	m, tr := newTestMailer(t)
	err := m.SendVerificationOTP(Recipient{Email: "jane@shoecreatify.local", Name: "Jane", Locale: "en"}, "123456", "abc")
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	mail := tr.sent[0]
	assert.Equal(t, "jane@shoecreatify.local", mail.to)
	assert.Equal(t, "Verify your shoecreatify account", mail.subject)
	assert.Contains(t, mail.html, "123456")
	assert.Contains(t, mail.html, "Hi Jane,")
	assert.Contains(t, mail.html, "expires in 10 minutes")
	assert.Contains(t, mail.html, "https://shoecreatify.local/verify-email?email=jane%40shoecreatify.local&amp;token=abc")
	assert.Contains(t, mail.text, "123456")
}

func TestSendEscapesNames(t *testing.T) {
	m, tr := newTestMailer(t)
	err := m.SendWelcome(Recipient{Email: "x@shoecreatify.local", Name: "<script>x</script>", Locale: "en"})
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	assert.NotContains(t, tr.sent[0].html, "<script>x</script>")
	assert.Contains(t, tr.sent[0].html, "&lt;script&gt;")
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	m, tr := newTestMailer(t)
	err := m.SendPasswordResetOTP(Recipient{Email: "x@shoecreatify.local", Name: "X", Locale: "ja"}, "654321")
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "Your shoecreatify password reset code", tr.sent[0].subject)
	assert.Contains(t, tr.sent[0].html, "654321")
}

func TestGermanTranslation(t *testing.T) {
	m, tr := newTestMailer(t)
	err := m.SendPasswordChanged(Recipient{Email: "x@shoecreatify.local", Name: "X", Locale: "de"})
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "Dein shoecreatify Passwort wurde geändert", tr.sent[0].subject)
}

func TestLoginAlertDetails(t *testing.T) {
	m, tr := newTestMailer(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	err := m.SendLoginAlert(Recipient{Email: "x@shoecreatify.local", Name: "X", Locale: "en"}, "10.1.1.1", "curl/8", at)
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	assert.Contains(t, tr.sent[0].html, "10.1.1.1")
	assert.Contains(t, tr.sent[0].html, "curl/8")
	assert.Contains(t, tr.sent[0].text, "IP address")
}

func TestSendTestEmail(t *testing.T) {
	m, tr := newTestMailer(t)
	require.NoError(t, m.SendTestEmail("ops@shoecreatify.local"))
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "Your test email is here!", tr.sent[0].subject)
}

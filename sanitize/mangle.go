package sanitize

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// UserInputString is used to strip value of any \r \n to
// avoiding log injection / CWE-117
func UserInputString(key string, value string) zapcore.Field {
	return zap.String(key, NoLineBreaks(value))
}

// MaskedEmail logs an email address with the local part reduced to its first rune
func MaskedEmail(key string, value string) zapcore.Field {
	value = NoLineBreaks(value)
	at := strings.LastIndex(value, "@")
	if at <= 0 {
		return zap.String(key, "***")
	}
	local := []rune(value[:at])
	return zap.String(key, string(local[0])+"***"+value[at:])
}

// NoLineBreaks removes linebreaks and carrage returns from string
func NoLineBreaks(value string) string {
	esc := strings.ReplaceAll(value, "\n", "")
	esc = strings.ReplaceAll(esc, "\r", "")
	return esc
}

package generator

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestCreateOTPIsSixDigitsInRange(t *testing.T) {
	g := New()
	for i := 0; i < 500; i++ {
		otp := string(g.CreateOTP())
		assert.Regexp(t, sixDigits, otp)
		n, err := strconv.Atoi(otp)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestCreateHexToken(t *testing.T) {
	g := New()
	a := g.CreateHexToken()
	b := g.CreateHexToken()
	assert.Len(t, string(a), 64)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[0-9a-f]{64}$`, string(a))
}

func TestHashOTPRoundtrip(t *testing.T) {
	g := New()
	otp := g.CreateOTP()
	stored := g.HashOTP(otp)

	assert.False(t, strings.Contains(stored, string(otp)))
	assert.True(t, VerifyOTP(stored, string(otp)))
	assert.False(t, VerifyOTP(stored, "000000"))
	assert.False(t, VerifyOTP(stored, ""))
}

func TestHashOTPIsSalted(t *testing.T) {
	g := New()
	a := g.HashOTP("123456")
	b := g.HashOTP("123456")
	assert.NotEqual(t, a, b)
	assert.True(t, VerifyOTP(a, "123456"))
	assert.True(t, VerifyOTP(b, "123456"))
}

func TestVerifyOTPRejectsMalformed(t *testing.T) {
	assert.False(t, VerifyOTP("", "123456"))
	assert.False(t, VerifyOTP("nosalt", "123456"))
	assert.False(t, VerifyOTP("zz$aa", "123456"))
	assert.False(t, VerifyOTP("abcd$abcd", "123456"))
}

func TestDigestToken(t *testing.T) {
	g := New()
	tok := string(g.CreateHexToken())
	d := DigestToken(tok)
	assert.Len(t, d, 64)
	assert.NotEqual(t, tok, d)
	assert.True(t, VerifyTokenDigest(d, tok))
	assert.False(t, VerifyTokenDigest(d, tok+"0"))
}

func TestOtpFromNumberPanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { otpFromNumber(99999) })
	assert.Panics(t, func() { otpFromNumber(1000000) })
	assert.NotPanics(t, func() { otpFromNumber(100000) })
}

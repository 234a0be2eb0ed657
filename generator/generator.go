package generator

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"
)

const (
	// VerificationOTPTTL is the lifetime of a registration otp
	VerificationOTPTTL = 10 * time.Minute
	// ResetOTPTTL is the lifetime of a password reset otp
	ResetOTPTTL = 10 * time.Minute
	// EmailLinkTTL is the lifetime of the verification link token
	EmailLinkTTL = 24 * time.Hour
	// ResetLinkTTL caps the lifetime of a reset grant
	ResetLinkTTL = 30 * time.Minute
)

const (
	otpMin   = 100000
	otpMax   = 999999
	saltSize = 16
)

// OTP is a six digit one time password in clear text, it is only ever handed to the mailer
type OTP string

// Token is a 256 bit random value in hex encoding
type Token string

func otpFromNumber(n int64) OTP {
	if n < otpMin || n > otpMax {
		panic("otp out of range, this is probably the only reason to ever panic")
	}
	return OTP(fmt.Sprintf("%06d", n))
}

// RandomTokenGenerator creates otps and tokens from crypto/rand
type RandomTokenGenerator struct {
	reader io.Reader
}

// CreateOTP returns a uniformly distributed otp in [100000, 999999]
func (g *RandomTokenGenerator) CreateOTP() OTP {
	return otpFromNumber(g.genRandNum(otpMin, otpMax+1))
}

// CreateHexToken returns 32 random bytes hex encoded
func (g *RandomTokenGenerator) CreateHexToken() Token {
	return Token(hex.EncodeToString(g.randomBytes(32)))
}

// HashOTP returns a salted digest of the otp in the form salt$digest
func (g *RandomTokenGenerator) HashOTP(otp OTP) string {
	salt := g.randomBytes(saltSize)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(digest(salt, []byte(otp)))
}

// VerifyOTP compares a candidate against a stored salted digest in constant time
func VerifyOTP(stored string, candidate string) bool {
	parts := strings.SplitN(stored, "$", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil || len(salt) != saltSize {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := digest(salt, []byte(candidate))
	return subtle.ConstantTimeCompare(want, got) == 1
}

// DigestToken hashes a high entropy token for storage, no salt needed
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyTokenDigest compares a candidate token with a stored digest in constant time
func VerifyTokenDigest(stored string, candidate string) bool {
	got := DigestToken(candidate)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(got)) == 1
}

func digest(salt []byte, value []byte) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write(value)
	return h.Sum(nil)
}

func (g *RandomTokenGenerator) randomBytes(size int) []byte {
	b := make([]byte, size)
	if _, err := io.ReadFull(g.reader, b); err != nil {
		panic(err.Error()) // rand should never fail
	}
	return b
}

func (g *RandomTokenGenerator) genRandNum(min, max int64) int64 {
	bg := big.NewInt(max - min)
	n, err := rand.Int(g.reader, bg)
	if err != nil {
		panic(err)
	}
	return n.Int64() + min
}

func New() *RandomTokenGenerator {
	return &RandomTokenGenerator{reader: rand.Reader}
}

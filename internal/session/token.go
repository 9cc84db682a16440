// Package session issues and verifies the browser session cookie: an
// HS256 JWT whose claims carry the client name and the Kit access
// token. The JWT is signed, not encrypted, so the bearer token is
// sealed with secretbox before it goes into the claims.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/nacl/secretbox"
)

const CookieName = "kitreport_session"

type Claims struct {
	ClientName  string `json:"client_name"`
	SealedToken string `json:"sealed_token"`
	jwt.RegisteredClaims
}

type Service struct {
	Secret  []byte
	sealKey [32]byte
	Issuer  string
	TTL     time.Duration
}

// NewService derives the seal key from the signing secret so a single
// configured secret covers both.
func NewService(secret, issuer string, ttl time.Duration) Service {
	return Service{
		Secret:  []byte(secret),
		sealKey: sha256.Sum256([]byte("seal:" + secret)),
		Issuer:  issuer,
		TTL:     ttl,
	}
}

// Session is the decoded cookie: who is signed in and the live Kit
// access token.
type Session struct {
	ClientName  string
	AccessToken string
}

func (s Service) Issue(clientName, accessToken string) (string, time.Time, error) {
	sealed, err := s.seal(accessToken)
	if err != nil {
		return "", time.Time{}, err
	}

	exp := time.Now().Add(s.TTL)
	claims := Claims{
		ClientName:  clientName,
		SealedToken: sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   clientName,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

func (s Service) Parse(raw string) (*Session, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid session claims")
	}

	accessToken, err := s.open(claims.SealedToken)
	if err != nil {
		return nil, err
	}
	return &Session{ClientName: claims.ClientName, AccessToken: accessToken}, nil
}

func (s Service) seal(plaintext string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("seal token: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.sealKey)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (s Service) open(sealed string) (string, error) {
	box, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(box) < 24 {
		return "", fmt.Errorf("malformed sealed token")
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plaintext, ok := secretbox.Open(nil, box[24:], &nonce, &s.sealKey)
	if !ok {
		return "", fmt.Errorf("unseal token failed")
	}
	return string(plaintext), nil
}

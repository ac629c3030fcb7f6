// Package ticket signs the confirmed reservation so the confirmation view can
// show it without any server-side storage.
package ticket

import (
	"errors"
	"fmt"
	"time"

	"little_lemon/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "little-lemon"

var ErrInvalidTicket = errors.New("invalid ticket")

type Claims struct {
	models.Reservation
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed ticket and its reference.
func (i *Issuer) Issue(r models.Reservation) (string, string, error) {
	const op = "ticket.Issue"

	now := i.now()
	ref := uuid.NewString()

	claims := Claims{
		Reservation: r,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ref,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, ref, nil
}

func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	const op = "ticket.Parse"

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidTicket, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTicket)
	}

	return claims, nil
}

package generation

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	siteIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	siteIDLength   = 12
	// 252 is the largest multiple of 36 below 256; higher bytes are
	// rejected so every symbol is equally likely.
	siteIDByteCeiling = 252
	maxReserveTries   = 5
)

var ErrIDExhausted = errors.New("could not reserve a unique site id")

// NewSiteID returns 12 base-36 characters from crypto/rand, about 62 bits.
func NewSiteID() (string, error) {
	out := make([]byte, 0, siteIDLength)
	buf := make([]byte, siteIDLength*2)
	for len(out) < siteIDLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if b >= siteIDByteCeiling {
				continue
			}
			out = append(out, siteIDAlphabet[int(b)%len(siteIDAlphabet)])
			if len(out) == siteIDLength {
				break
			}
		}
	}
	return string(out), nil
}

// ReserveSiteID draws ids until exists reports one unused.
func ReserveSiteID(ctx context.Context, exists func(ctx context.Context, id string) (bool, error)) (string, error) {
	for i := 0; i < maxReserveTries; i++ {
		id, err := NewSiteID()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check site id: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

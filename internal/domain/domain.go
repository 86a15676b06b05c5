package domain

import (
	"github.com/foundrr/foundrr-backend/internal/domain/generation"
	"github.com/foundrr/foundrr-backend/internal/domain/sites"
)

const (
	StyleMinimal   = generation.StyleMinimal
	StyleVibrant   = generation.StyleVibrant
	StyleCorporate = generation.StyleCorporate
	StyleDark      = generation.StyleDark
	StyleRetro     = generation.StyleRetro
	StyleLuxury    = generation.StyleLuxury
	StyleNeobrutal = generation.StyleNeobrutal
	StyleCyberpunk = generation.StyleCyberpunk

	LangEN = generation.LangEN
	LangAZ = generation.LangAZ

	ModeHTML = generation.ModeHTML
	ModeSPA  = generation.ModeSPA

	PaymentPending   = sites.PaymentPending
	PaymentSubmitted = sites.PaymentSubmitted
	PaymentApproved  = sites.PaymentApproved
	PaymentRejected  = sites.PaymentRejected
)

var (
	ErrEmptyPrompt    = generation.ErrEmptyPrompt
	ErrInvalidRequest = generation.ErrInvalidRequest
)

type (
	Style   = generation.Style
	Lang    = generation.Lang
	Mode    = generation.Mode
	Request = generation.Request

	Site          = sites.Site
	PaymentStatus = sites.PaymentStatus
)

var (
	DefaultColor   = generation.DefaultColor
	StoragePathFor = sites.StoragePathFor
)

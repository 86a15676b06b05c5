package generation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
)

type Style string

const (
	StyleMinimal   Style = "minimal"
	StyleVibrant   Style = "vibrant"
	StyleCorporate Style = "corporate"
	StyleDark      Style = "dark"
	StyleRetro     Style = "retro"
	StyleLuxury    Style = "luxury"
	StyleNeobrutal Style = "neobrutal"
	StyleCyberpunk Style = "cyberpunk"
)

var Styles = []Style{
	StyleMinimal, StyleVibrant, StyleCorporate, StyleDark,
	StyleRetro, StyleLuxury, StyleNeobrutal, StyleCyberpunk,
}

type Lang string

const (
	LangEN Lang = "en"
	LangAZ Lang = "az"
)

// Mode picks the output dialect. html is streamed, spa is buffered.
type Mode string

const (
	ModeHTML Mode = "html"
	ModeSPA  Mode = "spa"
)

// PageCatalog lists the routing keys a request may ask for.
var PageCatalog = []string{
	"home", "about", "features", "services", "pricing",
	"testimonials", "gallery", "blog", "faq", "contact",
}

const MaxPromptRunes = 4000

var (
	ErrEmptyPrompt    = errors.New("prompt is required")
	ErrInvalidRequest = errors.New("invalid generation request")
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Request struct {
	Prompt       string   `json:"prompt"`
	Style        Style    `json:"style"`
	Lang         Lang     `json:"lang"`
	PrimaryColor string   `json:"primaryColor"`
	Pages        []string `json:"pages"`
	Mode         Mode     `json:"mode"`
}

// Normalize fills defaults, canonicalises page keys and validates. The
// returned request is the only form the pipeline accepts.
func (r Request) Normalize(defaultMode Mode) (Request, error) {
	out := Request{
		Prompt:       strings.TrimSpace(r.Prompt),
		Style:        Style(strings.ToLower(strings.TrimSpace(string(r.Style)))),
		Lang:         Lang(strings.ToLower(strings.TrimSpace(string(r.Lang)))),
		PrimaryColor: strings.TrimSpace(r.PrimaryColor),
		Mode:         Mode(strings.ToLower(strings.TrimSpace(string(r.Mode)))),
	}
	if out.Prompt == "" {
		return Request{}, ErrEmptyPrompt
	}
	if out.Style == "" {
		out.Style = StyleMinimal
	}
	if out.Lang == "" {
		out.Lang = LangEN
	}
	if out.Mode == "" {
		out.Mode = defaultMode
	}
	if out.Mode == "" {
		out.Mode = ModeHTML
	}

	seen := map[string]bool{}
	for _, p := range r.Pages {
		key, err := slug.Normalize(strings.TrimSpace(p))
		if err != nil || key == "" {
			key = strings.ToLower(strings.TrimSpace(p))
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Pages = append(out.Pages, key)
	}

	if err := out.validate(); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if out.PrimaryColor == "" {
		out.PrimaryColor = DefaultColor(out.Style)
	}
	return out, nil
}

func (r Request) validate() error {
	styles := make([]interface{}, 0, len(Styles))
	for _, s := range Styles {
		styles = append(styles, s)
	}
	pages := make([]interface{}, 0, len(PageCatalog))
	for _, p := range PageCatalog {
		pages = append(pages, p)
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt, validation.Required, validation.RuneLength(1, MaxPromptRunes)),
		validation.Field(&r.Style, validation.Required, validation.In(styles...)),
		validation.Field(&r.Lang, validation.Required, validation.In(LangEN, LangAZ)),
		validation.Field(&r.Mode, validation.Required, validation.In(ModeHTML, ModeSPA)),
		validation.Field(&r.PrimaryColor, validation.Match(hexColor).Error("must be #rgb or #rrggbb")),
		validation.Field(&r.Pages, validation.Each(validation.In(pages...).Error("unknown page"))),
	)
}

// DefaultColor is the primary colour used when the request names none.
func DefaultColor(style Style) string {
	switch style {
	case StyleVibrant:
		return "#4f46e5"
	case StyleRetro:
		return "#be185d"
	default:
		return "#18181b"
	}
}

// LanguageName is the English name used in prompt instructions.
func (l Lang) LanguageName() string {
	if l == LangAZ {
		return "Azerbaijani"
	}
	return "English"
}

package generation

import (
	"fmt"
	"strings"

	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/modules/generation/templates"
)

type Prompt struct {
	System string
	User   string
}

var stylePersona = map[types.Style]string{
	types.StyleMinimal:   "a restrained minimalist who relies on whitespace, neutral tones and crisp typography",
	types.StyleVibrant:   "a bold product designer who uses saturated gradients and playful motion",
	types.StyleCorporate: "an enterprise brand designer who favours trust signals, structure and clear hierarchy",
	types.StyleDark:      "a dark-mode specialist who designs glowing accents on deep backgrounds",
	types.StyleRetro:     "a retro art director inspired by 80s posters, warm palettes and chunky type",
	types.StyleLuxury:    "a luxury brand designer who uses serif headings, gold accents and generous spacing",
	types.StyleNeobrutal: "a neo-brutalist who uses thick borders, hard shadows and raw layouts",
	types.StyleCyberpunk: "a cyberpunk UI designer who uses neon, glitch effects and monospace details",
}

// Compose builds the system and user turns for a validated request. It is
// pure; callers reject empty prompts before calling it.
func Compose(req types.Request) Prompt {
	var b strings.Builder

	b.WriteString("You are an expert Frontend Architect, working as ")
	b.WriteString(persona(req.Style))
	b.WriteString(".\n\n")

	if req.Mode == types.ModeSPA {
		b.WriteString("GOAL: Build a single-page React application styled with Tailwind CSS based on the user's prompt.\n\n")
	} else {
		b.WriteString("GOAL: Build a single-file HTML website using Tailwind CSS based on the user's prompt.\n\n")
	}

	b.WriteString("STRICT RULES:\n")
	if req.Mode == types.ModeSPA {
		b.WriteString("1.  **Output**: Return ONLY the JSX program. No prose.\n")
	} else {
		b.WriteString("1.  **Output**: Return ONLY the raw HTML code. Do not wrap in markdown ```.\n")
	}
	b.WriteString("2.  **Tech Stack**: Tailwind CSS (CDN), FontAwesome (CDN), Google Fonts.\n")
	fmt.Fprintf(&b, "3.  **Language**: All visible text MUST be in %s.\n", req.Lang.LanguageName())
	b.WriteString("4.  **Images**: Use `/api/images/proxy?query=KEYWORD` for ALL images. Do not use Unsplash links directly.\n")
	b.WriteString("5.  **Multi-Page Hooks**: The Navbar MUST have links to `/about`, `/contact`, even if they don't exist yet.\n")
	fmt.Fprintf(&b, "6.  **Primary colour**: %s. Use it for buttons, links and accents.\n", req.PrimaryColor)
	if len(req.Pages) > 0 {
		fmt.Fprintf(&b, "7.  **Pages**: Provide these pages, in order: %s.\n", strings.Join(req.Pages, ", "))
		b.WriteString("    Routing keys and anchors stay in English exactly as listed; only the visible labels are translated.\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "COMPONENTS TO USE (Adapt text/colors to the prompt %q and style %q):\n\n", req.Prompt, string(req.Style))
	b.WriteString("- Use this for Navbar:\n")
	b.WriteString(templates.Navbar)
	b.WriteString("\n- Use this for HERO:\n")
	b.WriteString(templates.HeroFor(req.Style))
	b.WriteString("\n- Use this for FEATURES (Bento Grid is mandatory):\n")
	b.WriteString(templates.BentoGrid)
	b.WriteString("\n- Use this for FOOTER:\n")
	b.WriteString(templates.Footer)
	b.WriteString("\n")

	if req.Mode == types.ModeSPA {
		b.WriteString(templates.SPAContract)
		b.WriteString("\n")
	} else {
		b.WriteString("STRUCTURE:\n")
		b.WriteString(templates.DocumentStructure(req.Lang, req.PrimaryColor))
	}

	return Prompt{
		System: b.String(),
		User:   fmt.Sprintf("Build a website for: %s. Style: %s.", req.Prompt, req.Style),
	}
}

func persona(style types.Style) string {
	if p, ok := stylePersona[style]; ok {
		return p
	}
	return stylePersona[types.StyleMinimal]
}

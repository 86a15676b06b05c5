package generation

import (
	"regexp"
	"strings"

	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/modules/generation/extract"
	"github.com/foundrr/foundrr-backend/internal/modules/generation/templates"
)

type Assembled struct {
	Code     string
	Markup   string
	Dialect  extract.Dialect
	Strategy extract.Strategy
	Injected []extract.Role
}

var (
	htmlTagRe      = regexp.MustCompile(`(?i)<html\b`)
	bodyInnerRe    = regexp.MustCompile(`(?is)<body\b[^>]*>(.*)</body\s*>`)
	importLineRe   = regexp.MustCompile(`(?m)^\s*import\b[^\n]*\n?`)
	useClientRe    = regexp.MustCompile(`(?m)^\s*['"]use client['"];?\s*\n?`)
	exportDefaultX = regexp.MustCompile(`(?m)^\s*export\s+default\s+[A-Za-z_$][\w$]*\s*;?\s*$\n?`)
	exportPrefixRe = regexp.MustCompile(`(?m)^(\s*)export\s+(?:default\s+)?((?:async\s+)?(?:function|const|let|var|class)\b)`)
	renderCallRe   = regexp.MustCompile(`ReactDOM\.(?:createRoot|render)\s*\(`)
	appDefinedRe   = regexp.MustCompile(`\b(?:function|class)\s+App\b|\b(?:const|let|var)\s+App\s*=`)
)

const spaBootstrap = "ReactDOM.createRoot(document.getElementById('root')).render(<App />);"

// Assemble turns raw model output into the stored document.
func Assemble(raw string, req types.Request) Assembled {
	res := extract.Extract(raw)
	if req.Mode == types.ModeSPA {
		return assembleSPA(res, req)
	}
	return assembleHTML(res, req)
}

func assembleHTML(res extract.Result, req types.Request) Assembled {
	healed := extract.Heal(res.Code, extract.DialectHTML, req.Lang)
	markup := healed.Code
	if !htmlTagRe.MatchString(markup) {
		markup = templates.HTMLShell(req.Lang, req.PrimaryColor, markup)
	}
	return Assembled{
		Code:     healed.Code,
		Markup:   Neutralize(markup),
		Dialect:  extract.DialectHTML,
		Strategy: res.Strategy,
		Injected: healed.Injected,
	}
}

func assembleSPA(res extract.Result, req types.Request) Assembled {
	code := res.Code
	if looksLikeHTML(code) {
		// The model answered with markup; render it as the App body.
		if m := bodyInnerRe.FindStringSubmatch(code); m != nil {
			code = m[1]
		}
		code = "function App() {\n  return (\n    <>\n" + extract.HTMLToJSX(strings.TrimSpace(code)) + "\n    </>\n  );\n}"
	}
	code = stripModuleSyntax(code)

	healed := extract.Heal(code, extract.DialectReact, req.Lang)
	script := healed.Code
	if !renderCallRe.MatchString(script) {
		script += "\n\n" + spaBootstrap
	}
	return Assembled{
		Code:     healed.Code,
		Markup:   Neutralize(templates.SPAShell(req.Lang, req.PrimaryColor, script)),
		Dialect:  extract.DialectReact,
		Strategy: res.Strategy,
		Injected: healed.Injected,
	}
}

// stripModuleSyntax removes imports and exports; the page loads React as
// UMD globals and Babel standalone does not resolve modules.
func stripModuleSyntax(code string) string {
	code = importLineRe.ReplaceAllString(code, "")
	code = useClientRe.ReplaceAllString(code, "")
	code = exportDefaultX.ReplaceAllString(code, "")
	code = exportPrefixRe.ReplaceAllString(code, "$1$2")
	return strings.TrimSpace(code)
}

func looksLikeHTML(code string) bool {
	trimmed := strings.TrimSpace(code)
	return strings.HasPrefix(trimmed, "<") && !appDefinedRe.MatchString(trimmed)
}

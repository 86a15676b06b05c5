package extract

import (
	"regexp"
	"strings"

	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/modules/generation/templates"
)

type Healed struct {
	Code     string
	Injected []Role
}

var (
	bodyOpenRe  = regexp.MustCompile(`(?i)<body\b[^>]*>`)
	bodyCloseRe = regexp.MustCompile(`(?i)</body\s*>`)
	navCloseRe  = regexp.MustCompile(`(?i)</nav\s*>`)
	headCloseRe = regexp.MustCompile(`(?i)</head\s*>`)
	htmlOpenRe  = regexp.MustCompile(`(?i)<html\b[^>]*>`)
	htmlCloseRe = regexp.MustCompile(`(?i)</html\s*>`)
	doctypeRe   = regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`)

	appEntryRe     = regexp.MustCompile(`\b(?:function|class)\s+App\b|\b(?:const|let|var)\s+App\s*=`)
	appFuncRe      = regexp.MustCompile(`\b(function|class)\s+App\b`)
	appBindRe      = regexp.MustCompile(`\b(const|let|var)\s+App(\s*=)`)
	componentDefRe = regexp.MustCompile(`(?m)^(?:export\s+(?:default\s+)?)?(?:function|const|let|class)\s+([A-Z][A-Za-z0-9_]*)\b`)
	leadingImport  = regexp.MustCompile(`^(?:\s*(?:import\b[^\n]*|['"]use client['"];?)\n)+`)
)

// Heal makes sure code carries exactly one nav, hero and footer. Missing
// roles get placeholders: nav then hero at the top, footer at the end. Roles
// already present are left alone, so healing twice changes nothing.
func Heal(code string, d Dialect, lang types.Lang) Healed {
	missing := Missing(code, d)
	if d == DialectReact {
		return healReact(code, missing, lang)
	}
	return healHTML(code, missing, lang)
}

func healHTML(code string, missing []Role, lang types.Lang) Healed {
	out := Healed{Code: code}
	if len(missing) == 0 {
		return out
	}
	need := roleSet(missing)

	var top []string
	if need[RoleNav] {
		top = append(top, templates.PlaceholderNavHTML(lang))
	}
	if need[RoleHero] {
		top = append(top, templates.PlaceholderHeroHTML(lang))
	}

	if len(top) > 0 {
		block := strings.Join(top, "\n")
		at := topInsertHTML(code, need[RoleNav])
		code = code[:at] + "\n" + block + "\n" + code[at:]
	}

	if need[RoleFooter] {
		footer := templates.PlaceholderFooterHTML(lang)
		if locs := bodyCloseRe.FindAllStringIndex(code, -1); len(locs) > 0 {
			at := locs[len(locs)-1][0]
			code = code[:at] + footer + "\n" + code[at:]
		} else if locs := htmlCloseRe.FindAllStringIndex(code, -1); len(locs) > 0 {
			at := locs[len(locs)-1][0]
			code = code[:at] + footer + "\n" + code[at:]
		} else {
			code = strings.TrimRight(code, " \t\r\n") + "\n" + footer
		}
	}

	out.Code = code
	out.Injected = missing
	return out
}

// topInsertHTML finds where leading placeholders go: after an existing nav
// when only the hero is missing, otherwise just inside <body>. A document
// without <body> takes them after its head, never ahead of the doctype.
func topInsertHTML(code string, navMissing bool) int {
	if !navMissing {
		if loc := navCloseRe.FindStringIndex(code); loc != nil {
			return loc[1]
		}
	}
	for _, re := range []*regexp.Regexp{bodyOpenRe, headCloseRe, htmlOpenRe, doctypeRe} {
		if loc := re.FindStringIndex(code); loc != nil {
			return loc[1]
		}
	}
	return 0
}

func healReact(code string, missing []Role, lang types.Lang) Healed {
	out := Healed{Code: code}
	hasApp := appEntryRe.MatchString(code)
	if len(missing) == 0 && hasApp {
		return out
	}
	need := roleSet(missing)

	var top []string
	if need[RoleNav] {
		top = append(top, templates.PlaceholderNavReact(lang))
	}
	if need[RoleHero] {
		top = append(top, templates.PlaceholderHeroReact(lang))
	}

	body := code
	if hasApp && len(missing) > 0 {
		// Keep the model's App and wrap it so injected parts actually render.
		body = appFuncRe.ReplaceAllString(body, "$1 GeneratedApp")
		body = appBindRe.ReplaceAllString(body, "$1 GeneratedApp$2")
	}

	head := ""
	if loc := leadingImport.FindStringIndex(body); loc != nil {
		head, body = body[:loc[1]], body[loc[1]:]
	}

	var b strings.Builder
	b.WriteString(head)
	for _, part := range top {
		b.WriteString(part)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimSpace(body))
	if need[RoleFooter] {
		b.WriteString("\n\n")
		b.WriteString(templates.PlaceholderFooterReact(lang))
	}

	switch {
	case hasApp && len(missing) > 0:
		b.WriteString("\n\n")
		b.WriteString(wrapperApp(need))
	case !hasApp:
		b.WriteString("\n\n")
		b.WriteString(composedApp(b.String()))
	}

	out.Code = b.String()
	out.Injected = missing
	return out
}

func wrapperApp(injected map[Role]bool) string {
	var b strings.Builder
	b.WriteString("function App() {\n  return (\n    <>\n")
	if injected[RoleNav] {
		b.WriteString("      <Navbar />\n")
	}
	if injected[RoleHero] {
		b.WriteString("      <Hero />\n")
	}
	b.WriteString("      <GeneratedApp />\n")
	if injected[RoleFooter] {
		b.WriteString("      <Footer />\n")
	}
	b.WriteString("    </>\n  );\n}")
	return b.String()
}

// composedApp renders every top-level component: nav and hero first, then
// the rest in source order, footer last.
func composedApp(code string) string {
	var nav, hero, footer string
	var middle []string
	seen := map[string]bool{}
	for _, m := range componentDefRe.FindAllStringSubmatch(code, -1) {
		name := m[1]
		// ALL_CAPS bindings are constants, not components.
		if seen[name] || name == "App" || name == "GeneratedApp" || strings.ToUpper(name) == name {
			continue
		}
		seen[name] = true
		switch {
		case nav == "" && isNavName(name):
			nav = name
		case hero == "" && strings.HasPrefix(name, "Hero"):
			hero = name
		case footer == "" && strings.HasPrefix(name, "Footer"):
			footer = name
		default:
			middle = append(middle, name)
		}
	}

	var b strings.Builder
	b.WriteString("function App() {\n  return (\n    <>\n")
	for _, name := range append(append([]string{nav, hero}, middle...), footer) {
		if name == "" {
			continue
		}
		b.WriteString("      <" + name + " />\n")
	}
	b.WriteString("    </>\n  );\n}")
	return b.String()
}

func isNavName(name string) bool {
	switch name {
	case "Navbar", "NavBar", "Nav", "Navigation":
		return true
	}
	return false
}

func roleSet(roles []Role) map[Role]bool {
	out := make(map[Role]bool, len(roles))
	for _, r := range roles {
		out[r] = true
	}
	return out
}

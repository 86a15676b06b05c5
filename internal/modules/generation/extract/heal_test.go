package extract

import (
	"regexp"
	"strings"
	"testing"

	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/modules/generation/templates"
)

// countRole counts rendered elements. React matching is case-sensitive so
// component usages like <Footer /> are not counted.
func countRole(t *testing.T, code string, d Dialect, role Role) int {
	t.Helper()
	flags := ""
	if d == DialectHTML {
		flags = "(?i)"
	}
	var expr string
	switch role {
	case RoleNav:
		expr = `<nav\b`
	case RoleHero:
		expr = `<header\b|<main\b|<section\b[^>]*\bhero`
	case RoleFooter:
		expr = `<footer\b`
	}
	return len(regexp.MustCompile(flags + expr).FindAllStringIndex(code, -1))
}

func TestHealHTMLInjectsExactlyOneOfEach(t *testing.T) {
	inputs := []string{
		"<!DOCTYPE html><html><body><section id=\"features\">x</section></body></html>",
		"<section>fragment only</section>",
		"<html><body><nav>n</nav><section>x</section></body></html>",
		"<html><body><nav>n</nav><main>m</main><footer>f</footer></body></html>",
		"",
	}
	for _, in := range inputs {
		healed := Heal(in, DialectHTML, types.LangEN)
		for _, role := range Roles {
			if n := countRole(t, healed.Code, DialectHTML, role); n != 1 {
				t.Fatalf("input %q: %s count want=1 got=%d\n%s", in, role, n, healed.Code)
			}
		}
		again := Heal(healed.Code, DialectHTML, types.LangEN)
		if again.Code != healed.Code || len(again.Injected) != 0 {
			t.Fatalf("input %q: healing is not idempotent", in)
		}
	}
}

func TestHealHTMLOrdering(t *testing.T) {
	in := "<html><body><section id=\"features\">x</section></body></html>"
	got := Heal(in, DialectHTML, types.LangEN).Code

	nav := strings.Index(got, "<nav")
	hero := strings.Index(got, "<header")
	content := strings.Index(got, `id="features"`)
	footer := strings.Index(got, "<footer")
	bodyClose := strings.Index(got, "</body>")
	if !(strings.Index(got, "<body>") < nav && nav < hero && hero < content && content < footer && footer < bodyClose) {
		t.Fatalf("unexpected order:\n%s", got)
	}
}

func TestHealHTMLMissingFooterAppendedLast(t *testing.T) {
	in := "<nav>n</nav><main>m</main>"
	healed := Heal(in, DialectHTML, types.LangEN)
	footer := templates.PlaceholderFooterHTML(types.LangEN)
	if !strings.HasSuffix(healed.Code, footer) {
		t.Fatalf("footer should be last:\n%s", healed.Code)
	}
	if len(healed.Injected) != 1 || healed.Injected[0] != RoleFooter {
		t.Fatalf("injected: got %v", healed.Injected)
	}
	// The placeholder is complete on its own.
	if strings.Count(footer, "<footer") != 1 || !strings.HasSuffix(footer, "</footer>") {
		t.Fatalf("footer placeholder is not self-contained: %q", footer)
	}
	if Heal(footer, DialectHTML, types.LangEN).Code == "" {
		t.Fatalf("placeholder alone should heal")
	}
}

func TestHealHeroAfterExistingNav(t *testing.T) {
	in := "<body><nav>n</nav><section>x</section><footer>f</footer></body>"
	got := Heal(in, DialectHTML, types.LangEN).Code
	if strings.Index(got, "</nav>") > strings.Index(got, "<header") {
		t.Fatalf("hero should follow the existing nav:\n%s", got)
	}
}

func TestHealAzNavKeepsEnglishRoutes(t *testing.T) {
	got := Heal("<main>m</main><footer>f</footer>", DialectHTML, types.LangAZ).Code
	for _, r := range []string{"home", "features", "pricing"} {
		if !strings.Contains(got, `data-route="`+r+`"`) {
			t.Fatalf("route %q missing:\n%s", r, got)
		}
	}
	if !strings.Contains(got, "Xüsusiyyətlər") {
		t.Fatalf("visible labels should be Azerbaijani:\n%s", got)
	}
}

func TestHealReactWithoutApp(t *testing.T) {
	in := "import React from 'react';\nfunction Features() {\n  return <section>f</section>;\n}\nconst API_URL = '/x';"
	healed := Heal(in, DialectReact, types.LangEN)
	code := healed.Code

	if !strings.HasPrefix(code, "import React from 'react';\n") {
		t.Fatalf("imports should stay on top:\n%s", code)
	}
	for _, want := range []string{"function Navbar()", "function Hero()", "function Footer()", "function App()", "<Features />"} {
		if !strings.Contains(code, want) {
			t.Fatalf("missing %q:\n%s", want, code)
		}
	}
	if strings.Contains(code, "<API_URL />") {
		t.Fatalf("constants must not be rendered as components")
	}
	app := code[strings.Index(code, "function App()"):]
	if !(strings.Index(app, "<Navbar />") < strings.Index(app, "<Hero />") &&
		strings.Index(app, "<Hero />") < strings.Index(app, "<Features />") &&
		strings.Index(app, "<Features />") < strings.Index(app, "<Footer />")) {
		t.Fatalf("App composition order:\n%s", app)
	}
	for _, role := range Roles {
		if n := countRole(t, code, DialectReact, role); n != 1 {
			t.Fatalf("%s count want=1 got=%d", role, n)
		}
	}
	if again := Heal(code, DialectReact, types.LangEN); again.Code != code {
		t.Fatalf("react healing is not idempotent")
	}
}

func TestHealReactWrapsExistingApp(t *testing.T) {
	in := "function Navbar() { return <nav>n</nav>; }\nfunction Hero() { return <header>h</header>; }\nfunction App() {\n  return (<div><Navbar /><Hero /></div>);\n}"
	healed := Heal(in, DialectReact, types.LangEN)
	if len(healed.Injected) != 1 || healed.Injected[0] != RoleFooter {
		t.Fatalf("injected: got %v", healed.Injected)
	}
	code := healed.Code
	if !strings.Contains(code, "function GeneratedApp()") || strings.Count(code, "function App()") != 1 {
		t.Fatalf("existing App should be renamed and wrapped:\n%s", code)
	}
	if !strings.Contains(code, "<GeneratedApp />") || !strings.Contains(code, "<Footer />") {
		t.Fatalf("wrapper should render the original app and the footer:\n%s", code)
	}
	if again := Heal(code, DialectReact, types.LangEN); again.Code != code {
		t.Fatalf("react healing is not idempotent")
	}
}

func TestHealReactCompleteIsPassThrough(t *testing.T) {
	in := "const Navbar = () => <nav/>;\nconst Hero = () => <header/>;\nconst Footer = () => <footer/>;\nconst App = () => <><Navbar/><Hero/><Footer/></>;"
	healed := Heal(in, DialectReact, types.LangEN)
	if healed.Code != in || len(healed.Injected) != 0 {
		t.Fatalf("complete program should pass through: %+v", healed)
	}
}

func TestHealHTMLWithoutBodyKeepsDoctypeFirst(t *testing.T) {
	in := "<!DOCTYPE html>\n<html><head><title>t</title></head>\n<section id=\"features\">x</section>\n</html>"
	got := Heal(in, DialectHTML, types.LangEN).Code

	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Fatalf("doctype must stay first:\n%s", got)
	}
	headClose := strings.Index(got, "</head>")
	nav := strings.Index(got, "<nav")
	footer := strings.Index(got, "<footer")
	htmlClose := strings.LastIndex(got, "</html>")
	if !(headClose < nav && nav < strings.Index(got, `id="features"`) && footer < htmlClose) {
		t.Fatalf("placeholders should sit between </head> and </html>:\n%s", got)
	}

	headless := Heal("<!doctype html><html lang=\"en\"><section>x</section></html>", DialectHTML, types.LangEN).Code
	if !strings.HasPrefix(headless, "<!doctype html><html lang=\"en\">") {
		t.Fatalf("placeholders should follow the html open tag:\n%s", headless)
	}
}

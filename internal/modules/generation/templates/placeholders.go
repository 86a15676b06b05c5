package templates

import (
	"strings"

	"github.com/foundrr/foundrr-backend/internal/domain/generation"
)

// Route keys stay English in every language so links keep working after
// translation.
var NavRoutes = []string{"home", "features", "pricing"}

type labels struct {
	Brand    string
	Routes   map[string]string
	Welcome  string
	Subtitle string
	Rights   string
}

var labelsByLang = map[generation.Lang]labels{
	generation.LangEN: {
		Brand:    "Brand",
		Routes:   map[string]string{"home": "Home", "features": "Features", "pricing": "Pricing"},
		Welcome:  "Welcome",
		Subtitle: "We are putting the finishing touches on this page.",
		Rights:   "All rights reserved.",
	},
	generation.LangAZ: {
		Brand:    "Brend",
		Routes:   map[string]string{"home": "Ana səhifə", "features": "Xüsusiyyətlər", "pricing": "Qiymətlər"},
		Welcome:  "Xoş gəlmisiniz",
		Subtitle: "Bu səhifə üzərində son tamamlamalar aparılır.",
		Rights:   "Bütün hüquqlar qorunur.",
	},
}

func labelsFor(lang generation.Lang) labels {
	if l, ok := labelsByLang[lang]; ok {
		return l
	}
	return labelsByLang[generation.LangEN]
}

// NavLabel returns the visible label for a route key.
func NavLabel(lang generation.Lang, route string) string {
	return labelsFor(lang).Routes[route]
}

func PlaceholderNavHTML(lang generation.Lang) string {
	l := labelsFor(lang)
	var b strings.Builder
	b.WriteString(`<nav class="w-full border-b border-gray-100 bg-white" data-placeholder="nav">` + "\n")
	b.WriteString(`  <div class="container mx-auto px-6 h-16 flex items-center justify-between">` + "\n")
	b.WriteString(`    <span class="text-lg font-bold text-gray-900">` + l.Brand + `</span>` + "\n")
	b.WriteString(`    <div class="flex gap-6 text-sm font-medium text-gray-600">` + "\n")
	for _, r := range NavRoutes {
		b.WriteString(`      <a href="#` + r + `" data-route="` + r + `">` + l.Routes[r] + `</a>` + "\n")
	}
	b.WriteString("    </div>\n  </div>\n</nav>")
	return b.String()
}

func PlaceholderHeroHTML(lang generation.Lang) string {
	l := labelsFor(lang)
	return `<header id="home" class="py-24 text-center bg-white" data-placeholder="hero">
  <h1 class="text-5xl font-bold tracking-tight text-gray-900">` + l.Welcome + `</h1>
  <p class="mt-4 text-lg text-gray-600">` + l.Subtitle + `</p>
</header>`
}

func PlaceholderFooterHTML(lang generation.Lang) string {
	l := labelsFor(lang)
	return `<footer class="border-t border-gray-100 py-8 text-center text-sm text-gray-400" data-placeholder="footer">
  <p>&copy; ` + l.Brand + `. ` + l.Rights + `</p>
</footer>`
}

func PlaceholderNavReact(lang generation.Lang) string {
	l := labelsFor(lang)
	var b strings.Builder
	b.WriteString("function Navbar() {\n  return (\n")
	b.WriteString(`    <nav className="w-full border-b border-gray-100 bg-white" data-placeholder="nav">` + "\n")
	b.WriteString(`      <div className="container mx-auto px-6 h-16 flex items-center justify-between">` + "\n")
	b.WriteString(`        <span className="text-lg font-bold text-gray-900">` + l.Brand + `</span>` + "\n")
	b.WriteString(`        <div className="flex gap-6 text-sm font-medium text-gray-600">` + "\n")
	for _, r := range NavRoutes {
		b.WriteString(`          <a href="#` + r + `" data-route="` + r + `">` + l.Routes[r] + `</a>` + "\n")
	}
	b.WriteString("        </div>\n      </div>\n    </nav>\n  );\n}")
	return b.String()
}

func PlaceholderHeroReact(lang generation.Lang) string {
	l := labelsFor(lang)
	return `function Hero() {
  return (
    <header id="home" className="py-24 text-center bg-white" data-placeholder="hero">
      <h1 className="text-5xl font-bold tracking-tight text-gray-900">` + l.Welcome + `</h1>
      <p className="mt-4 text-lg text-gray-600">` + l.Subtitle + `</p>
    </header>
  );
}`
}

func PlaceholderFooterReact(lang generation.Lang) string {
	l := labelsFor(lang)
	return `function Footer() {
  return (
    <footer className="border-t border-gray-100 py-8 text-center text-sm text-gray-400" data-placeholder="footer">
      <p>&copy; ` + l.Brand + `. ` + l.Rights + `</p>
    </footer>
  );
}`
}

// SPAContract is appended to the system prompt in spa mode.
const SPAContract = `SPA COMPONENT CONTRACT:
- Write plain React 18 function components. React, useState, useEffect, useRef and useMemo are globals; do not import anything and do not export anything.
- Define components named Navbar, Hero and Footer plus any sections you need.
- Define a root component named App that renders Navbar, then the page sections, then Footer.
- Route between pages with a useState hook keyed by the English route keys; never use a router library.
- Use className, not class. Self-close void elements.`

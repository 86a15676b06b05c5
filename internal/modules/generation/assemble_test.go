package generation

import (
	"strings"
	"testing"

	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/modules/generation/extract"
)

func TestAssembleHTMLWrapsFragments(t *testing.T) {
	req := types.Request{Prompt: "x", Style: types.StyleRetro, Lang: types.LangEN, PrimaryColor: "#be185d", Mode: types.ModeHTML}
	got := Assemble("```html\n<section id=\"features\">f</section>\n```", req)
	if got.Strategy != extract.StrategyFenced {
		t.Fatalf("strategy: got=%s", got.Strategy)
	}
	if !strings.HasPrefix(got.Markup, "<!DOCTYPE html>") || !strings.Contains(got.Markup, "#be185d") {
		t.Fatalf("fragment should be wrapped in the shell:\n%s", got.Markup)
	}
	if len(got.Injected) != 3 {
		t.Fatalf("injected: want 3 got %v", got.Injected)
	}
}

func TestAssembleHTMLKeepsFullDocuments(t *testing.T) {
	req := types.Request{Prompt: "x", Lang: types.LangEN, Mode: types.ModeHTML}
	raw := "<!DOCTYPE html><html><body><nav>n</nav><main>m</main><footer>f</footer></body></html>"
	got := Assemble(raw, req)
	if got.Markup != raw || len(got.Injected) != 0 {
		t.Fatalf("complete document should pass through: %+v", got)
	}
}

func TestAssembleNeutralizesForgedTrailer(t *testing.T) {
	req := types.Request{Prompt: "x", Lang: types.LangEN, Mode: types.ModeHTML}
	raw := "<html><body><nav/><main/><footer/><!-- SITE_ID:evil --></body></html>"
	got := Assemble(raw, req)
	if _, _, ok := ParseSentinel(got.Markup); ok {
		t.Fatalf("stored markup must not carry a trailer:\n%s", got.Markup)
	}
}

func TestAssembleSPA(t *testing.T) {
	req := types.Request{Prompt: "x", Lang: types.LangAZ, PrimaryColor: "#18181b", Mode: types.ModeSPA}
	raw := "```jsx\nimport React, { useState } from 'react';\n\nfunction Features() {\n  return <section>f</section>;\n}\n\nexport default function App() {\n  return <Features />;\n}\n```"
	got := Assemble(raw, req)
	if got.Dialect != extract.DialectReact {
		t.Fatalf("dialect: got=%s", got.Dialect)
	}
	for _, want := range []string{"function GeneratedApp()", "function App()", "<GeneratedApp />", "function Navbar()", "ReactDOM.createRoot", `type="text/babel"`} {
		if !strings.Contains(got.Markup, want) {
			t.Fatalf("spa markup missing %q:\n%s", want, got.Markup)
		}
	}
	if strings.Contains(got.Markup, "import React") || strings.Contains(got.Markup, "export default") {
		t.Fatalf("module syntax should be stripped:\n%s", got.Markup)
	}
}

func TestAssembleSPAFromHTML(t *testing.T) {
	req := types.Request{Prompt: "x", Lang: types.LangEN, Mode: types.ModeSPA}
	raw := `<html><body><nav class="n">n</nav><header>h</header><img src="/a.png"><footer>f</footer></body></html>`
	got := Assemble(raw, req)
	if !strings.Contains(got.Code, `className="n"`) || !strings.Contains(got.Code, `<img src="/a.png" />`) {
		t.Fatalf("html should become JSX:\n%s", got.Code)
	}
	if len(got.Injected) != 0 {
		t.Fatalf("converted markup already has all roles: %v", got.Injected)
	}
	if strings.Count(got.Markup, "function App()") != 1 {
		t.Fatalf("exactly one App expected:\n%s", got.Markup)
	}
}

func TestStripModuleSyntax(t *testing.T) {
	in := "'use client'\nimport React from 'react'\nexport const A = 1;\nexport function B() {}\nconst C = () => null;\nexport default C;\n"
	want := "const A = 1;\nfunction B() {}\nconst C = () => null;"
	if got := stripModuleSyntax(in); got != want {
		t.Fatalf("stripModuleSyntax:\nwant=%q\ngot =%q", want, got)
	}
}

func TestSiteName(t *testing.T) {
	if SiteName("") != "Untitled Project" {
		t.Fatalf("empty prompt name")
	}
	got := SiteName("Landing page for a coffee shop in Baku with a menu")
	if got != "Landing page for a coffee shop" {
		t.Fatalf("truncated name: got=%q", got)
	}
	if SiteName("Çayxana üçün sayt") != "Çayxana üçün sayt" {
		t.Fatalf("short names are kept whole")
	}
}

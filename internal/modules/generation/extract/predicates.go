package extract

import "regexp"

type Dialect string

const (
	DialectHTML  Dialect = "html"
	DialectReact Dialect = "react"
)

type Role string

const (
	RoleNav    Role = "nav"
	RoleHero   Role = "hero"
	RoleFooter Role = "footer"
)

// Roles in injection order.
var Roles = []Role{RoleNav, RoleHero, RoleFooter}

// Predicate detects one structural role in one dialect.
type Predicate struct {
	Name    string
	Dialect Dialect
	Role    Role
	re      *regexp.Regexp
}

func (p Predicate) Match(code string) bool { return p.re.MatchString(code) }

func predicate(name string, d Dialect, r Role, expr string) Predicate {
	return Predicate{Name: name, Dialect: d, Role: r, re: regexp.MustCompile(expr)}
}

// Predicates is the full detection table. A role is present when any of its
// predicates matches.
var Predicates = []Predicate{
	predicate("react.component.nav", DialectReact, RoleNav, `\b(?:function|const|let|class)\s+(?:Navbar|NavBar|Nav|Navigation)\b`),
	predicate("react.jsx.nav", DialectReact, RoleNav, `<nav\b`),
	predicate("react.component.hero", DialectReact, RoleHero, `\b(?:function|const|let|class)\s+Hero\w*\b`),
	predicate("react.jsx.hero", DialectReact, RoleHero, `<header\b|<section\b[^>]*\bhero`),
	predicate("react.component.footer", DialectReact, RoleFooter, `\b(?:function|const|let|class)\s+Footer\w*\b`),
	predicate("react.jsx.footer", DialectReact, RoleFooter, `<footer\b`),

	predicate("html.nav", DialectHTML, RoleNav, `(?i)<nav\b`),
	predicate("html.hero", DialectHTML, RoleHero, `(?i)<header\b|<section\b[^>]*\bhero|<main\b`),
	predicate("html.footer", DialectHTML, RoleFooter, `(?i)<footer\b`),
}

// Has reports whether code already carries role in dialect d.
func Has(code string, d Dialect, role Role) bool {
	for _, p := range Predicates {
		if p.Dialect == d && p.Role == role && p.Match(code) {
			return true
		}
	}
	return false
}

// Missing lists the roles code lacks, in injection order.
func Missing(code string, d Dialect) []Role {
	var out []Role
	for _, r := range Roles {
		if !Has(code, d, r) {
			out = append(out, r)
		}
	}
	return out
}

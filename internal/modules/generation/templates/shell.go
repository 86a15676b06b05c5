package templates

import (
	"strings"

	"github.com/foundrr/foundrr-backend/internal/domain/generation"
)

// HeroFor picks the hero variant that matches a style's palette.
func HeroFor(style generation.Style) string {
	switch style {
	case generation.StyleDark, generation.StyleCyberpunk, generation.StyleCorporate, generation.StyleNeobrutal:
		return HeroDark
	default:
		return HeroModern
	}
}

const headAssets = `  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <script src="https://cdn.tailwindcss.com"></script>
  <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css">
  <link href="https://fonts.googleapis.com/css2?family=Inter:wght@300;400;600;800&family=Outfit:wght@300;400;600;800&display=swap" rel="stylesheet">
  <script>
    tailwind.config = {
      theme: {
        extend: {
          fontFamily: {
            sans: ['Inter', 'sans-serif'],
          },
          colors: {
            primary: '{{PRIMARY_COLOR}}',
          }
        }
      }
    }
  </script>`

const htmlShell = `<!DOCTYPE html>
<html lang="{{LANG}}">
<head>
{{HEAD}}
</head>
<body class="font-sans antialiased">
{{BODY}}
</body>
</html>
`

const spaShell = `<!DOCTYPE html>
<html lang="{{LANG}}">
<head>
{{HEAD}}
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script src="https://unpkg.com/@babel/standalone/babel.min.js"></script>
</head>
<body class="font-sans antialiased">
<div id="root"></div>
<script type="text/babel" data-presets="react">
const { useState, useEffect, useRef, useMemo } = React;
{{SCRIPT}}
</script>
</body>
</html>
`

// HTMLShell wraps body markup in the standard document head.
func HTMLShell(lang generation.Lang, primaryColor, body string) string {
	return strings.NewReplacer(
		"{{LANG}}", string(lang),
		"{{HEAD}}", head(primaryColor),
		"{{BODY}}", body,
	).Replace(htmlShell)
}

// SPAShell embeds a React program in a page that loads React 18 and Babel
// standalone from a CDN.
func SPAShell(lang generation.Lang, primaryColor, script string) string {
	return strings.NewReplacer(
		"{{LANG}}", string(lang),
		"{{HEAD}}", head(primaryColor),
		"{{SCRIPT}}", script,
	).Replace(spaShell)
}

// DocumentStructure is the skeleton shown to the model in html mode.
func DocumentStructure(lang generation.Lang, primaryColor string) string {
	return HTMLShell(lang, primaryColor, "\n<!-- YOUR CONTENT HERE -->\n")
}

func head(primaryColor string) string {
	return strings.ReplaceAll(headAssets, "{{PRIMARY_COLOR}}", primaryColor)
}

package extract

import (
	"regexp"
	"strings"
)

var jsxAttrs = strings.NewReplacer(
	"<!--", "{/*",
	"-->", "*/}",
	"onclick=", "onClick=",
	"tabindex=", "tabIndex=",
	"autoplay", "autoPlay",
	"frameborder=", "frameBorder=",
	"allowfullscreen", "allowFullScreen",
	"stroke-width=", "strokeWidth=",
	"stroke-linecap=", "strokeLinecap=",
	"stroke-linejoin=", "strokeLinejoin=",
	"fill-rule=", "fillRule=",
	"clip-rule=", "clipRule=",
	"viewbox=", "viewBox=",
	"srcset=", "srcSet=",
	"maxlength=", "maxLength=",
)

var (
	classAttrRe = regexp.MustCompile(`\bclass=`)
	forAttrRe   = regexp.MustCompile(`\bfor=`)
	voidTagRe   = regexp.MustCompile(`(?i)<(img|input|br|hr|link|meta|source|area|col|embed|wbr)\b([^>]*?)\s*/?>`)
	styleAttrRe = regexp.MustCompile(`\s+style="[^"]*"`)
	handlerRe   = regexp.MustCompile(`onClick="[^"]*"`)
)

// HTMLToJSX rewrites HTML markup so it parses as JSX. Inline styles are
// dropped because string styles crash React and Tailwind carries the layout.
func HTMLToJSX(html string) string {
	code := classAttrRe.ReplaceAllString(html, "className=")
	code = forAttrRe.ReplaceAllString(code, "htmlFor=")
	code = jsxAttrs.Replace(code)
	code = voidTagRe.ReplaceAllString(code, "<$1$2 />")
	code = styleAttrRe.ReplaceAllString(code, "")
	code = handlerRe.ReplaceAllString(code, "onClick={() => {}}")
	return code
}

package extract

import "testing"

func TestExtractFenced(t *testing.T) {
	raw := "Sure! Here is your site:\n```html\n  <!DOCTYPE html>\n<html><body>Hi</body></html>  \n```\nEnjoy."
	got := Extract(raw)
	want := "<!DOCTYPE html>\n<html><body>Hi</body></html>"
	if got.Strategy != StrategyFenced {
		t.Fatalf("strategy: want=%s got=%s", StrategyFenced, got.Strategy)
	}
	if got.Code != want {
		t.Fatalf("code: want=%q got=%q", want, got.Code)
	}
	if again := Extract(got.Code); again.Code != got.Code {
		t.Fatalf("not idempotent: first=%q second=%q", got.Code, again.Code)
	}
}

func TestExtractFencedLanguageTags(t *testing.T) {
	for _, tag := range []string{"", "jsx", "tsx", "javascript", "js", "react", "typescript", "ts"} {
		raw := "intro\n```" + tag + "\nfunction App() { return <div/>; }\n```"
		got := Extract(raw)
		if got.Strategy != StrategyFenced || got.Code != "function App() { return <div/>; }" {
			t.Fatalf("tag %q: got %+v", tag, got)
		}
	}
}

func TestExtractUnterminatedFence(t *testing.T) {
	got := Extract("Here you go\n```html\n<html><body>cut off")
	if got.Strategy != StrategyFenced || got.Code != "<html><body>cut off" {
		t.Fatalf("unterminated: got %+v", got)
	}
}

func TestExtractEntryScan(t *testing.T) {
	raw := "I built this for you.\n<!DOCTYPE html>\n<html><body>x</body></html>\nLet me know!"
	got := Extract(raw)
	if got.Strategy != StrategyEntryScan {
		t.Fatalf("strategy: want=%s got=%s", StrategyEntryScan, got.Strategy)
	}
	if got.Code != "<!DOCTYPE html>\n<html><body>x</body></html>" {
		t.Fatalf("code: got=%q", got.Code)
	}

	react := Extract("Explanation first.\nconst App = () => <div/>;")
	if react.Strategy != StrategyEntryScan || react.Code != "const App = () => <div/>;" {
		t.Fatalf("react entry: got %+v", react)
	}
}

func TestExtractRaw(t *testing.T) {
	got := Extract("  just some words  ")
	if got.Strategy != StrategyRaw || got.Code != "just some words" {
		t.Fatalf("raw: got %+v", got)
	}
	code := "<html><body><pre>```html\nsample\n```</pre></body></html>"
	if got := Extract(code); got.Code != code || got.Strategy != StrategyRaw {
		t.Fatalf("code with inner fence should pass through: got %+v", got)
	}
}

func TestExtractFencedReactIsIdempotent(t *testing.T) {
	body := "const { useState } = React;\n\nconst Navbar = () => <nav>n</nav>;\n\nfunction App() {\n  return <Navbar />;\n}"
	got := Extract("Here you go:\n```jsx\n" + body + "\n```")
	if got.Strategy != StrategyFenced || got.Code != body {
		t.Fatalf("first pass: got %+v", got)
	}
	again := Extract(got.Code)
	if again.Code != got.Code {
		t.Fatalf("not idempotent: first=%q second=%q", got.Code, again.Code)
	}

	helper := "const Navbar = () => <nav/>;\nfunction App() { return <Navbar />; }"
	if got := Extract(helper); got.Code != helper {
		t.Fatalf("component before App was cut: got=%q", got.Code)
	}
}

func TestExtractFenceAfterLeadingMarkup(t *testing.T) {
	got := Extract("<think>plan</think>\n```html\n<section>x</section>\n```")
	if got.Strategy != StrategyFenced || got.Code != "<section>x</section>" {
		t.Fatalf("leading tag hid the fence: got %+v", got)
	}
	if again := Extract(got.Code); again.Code != got.Code {
		t.Fatalf("not idempotent: first=%q second=%q", got.Code, again.Code)
	}

	sample := "<section><pre>```html\n<b>demo</b>\n```</pre></section>"
	if got := Extract(sample); got.Code != sample || got.Strategy != StrategyRaw {
		t.Fatalf("fence inside <pre> should not be extracted: got %+v", got)
	}
	inline := "<p>Use <code>```js\nx()\n```</code> to call it.</p>"
	if got := Extract(inline); got.Code != inline {
		t.Fatalf("fence inside <code> should not be extracted: got %+v", got)
	}
}

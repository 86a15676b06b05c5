package generation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	got, err := Request{Prompt: "  Landing page for a coffee shop  "}.Normalize("")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Prompt != "Landing page for a coffee shop" {
		t.Fatalf("prompt: got=%q", got.Prompt)
	}
	if got.Style != StyleMinimal || got.Lang != LangEN || got.Mode != ModeHTML {
		t.Fatalf("defaults: got style=%q lang=%q mode=%q", got.Style, got.Lang, got.Mode)
	}
	if got.PrimaryColor != "#18181b" {
		t.Fatalf("color: want=%q got=%q", "#18181b", got.PrimaryColor)
	}
}

func TestNormalizeDefaultMode(t *testing.T) {
	got, err := Request{Prompt: "x"}.Normalize(ModeSPA)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Mode != ModeSPA {
		t.Fatalf("mode: want=%q got=%q", ModeSPA, got.Mode)
	}
}

func TestNormalizeEmptyPrompt(t *testing.T) {
	_, err := Request{Prompt: "   "}.Normalize(ModeHTML)
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("want ErrEmptyPrompt, got %v", err)
	}
}

func TestNormalizeRejectsInvalidFields(t *testing.T) {
	cases := []Request{
		{Prompt: "x", Style: "baroque"},
		{Prompt: "x", Lang: "fr"},
		{Prompt: "x", Mode: "pdf"},
		{Prompt: "x", PrimaryColor: "red"},
		{Prompt: "x", Pages: []string{"careers"}},
		{Prompt: strings.Repeat("a", MaxPromptRunes+1)},
	}
	for _, c := range cases {
		if _, err := c.Normalize(ModeHTML); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("%+v: want ErrInvalidRequest, got %v", c, err)
		}
	}
}

func TestNormalizePages(t *testing.T) {
	got, err := Request{Prompt: "x", Style: "Vibrant", Pages: []string{"Home", "pricing", "home", " FAQ "}}.Normalize(ModeHTML)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"home", "pricing", "faq"}
	if !reflect.DeepEqual(got.Pages, want) {
		t.Fatalf("pages: want=%v got=%v", want, got.Pages)
	}
	if got.PrimaryColor != "#4f46e5" {
		t.Fatalf("vibrant color: got=%q", got.PrimaryColor)
	}
}

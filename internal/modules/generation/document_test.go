package generation

import (
	"errors"
	"testing"
)

func TestDocumentFinalizeOnce(t *testing.T) {
	d := NewDocument()
	if err := d.Append("<html>"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := d.Append("</html>"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if d.Raw() != "<html></html>" {
		t.Fatalf("raw: got=%q", d.Raw())
	}
	if err := d.Finalize("code", "markup"); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := d.Finalize("other", "other"); !errors.Is(err, ErrDocumentFinalized) {
		t.Fatalf("second Finalize: want ErrDocumentFinalized got %v", err)
	}
	if err := d.Append("late"); !errors.Is(err, ErrDocumentFinalized) {
		t.Fatalf("Append after Finalize: want ErrDocumentFinalized got %v", err)
	}
	if d.Code() != "code" || d.Markup() != "markup" || !d.Finalized() {
		t.Fatalf("finalized fields changed: code=%q markup=%q", d.Code(), d.Markup())
	}
}

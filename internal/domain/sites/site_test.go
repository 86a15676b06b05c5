package sites

import (
	"testing"

	"github.com/google/uuid"
)

func TestStoragePathFor(t *testing.T) {
	owner := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	got := StoragePathFor(owner, "abc123def456")
	want := "11111111-2222-3333-4444-555555555555/abc123def456/index.html"
	if got != want {
		t.Fatalf("path: want=%q got=%q", want, got)
	}
	if (Site{}).TableName() != "website" {
		t.Fatalf("table name: got=%q", (Site{}).TableName())
	}
}

package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "export.jsonl")
	dest := NewFileDestination(path)

	for _, data := range []string{"first\n", "second\n"} {
		if err := dest.Write(context.Background(), []byte(data)); err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != data {
			t.Fatalf("content = %q, want %q", got, data)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

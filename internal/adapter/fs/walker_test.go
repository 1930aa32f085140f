package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkerIncludesAndExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")
	writeFile(t, root, "notes/b.md")
	writeFile(t, root, "img/c.png")
	writeFile(t, root, "vendor/d.txt")

	w := NewWalker([]string{"**/*.txt", "**/*.md"}, []string{"vendor/**"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		got[filepath.ToSlash(f.Rel)] = true
	}

	for _, want := range []string{"a.txt", "notes/b.md"} {
		if !got[want] {
			t.Errorf("expected %s in results", want)
		}
	}
	if got["img/c.png"] {
		t.Error("png should not match includes")
	}
	if got["vendor/d.txt"] {
		t.Error("vendor file should be excluded")
	}
}

func TestWalkerDefaultIncludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.txt")
	writeFile(t, root, "other.bin")

	w := NewWalker(nil, nil)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 || files[0].Rel != "doc.txt" {
		t.Errorf("expected only doc.txt, got %v", files)
	}
}

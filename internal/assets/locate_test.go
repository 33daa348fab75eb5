package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocate_SearchesParents(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "a", ArchiveName), []byte("mix"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Locate(deep, ArchiveName)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if want := filepath.Join(root, "a"); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestLocate_IgnoresDirectoriesAndReportsMissing(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "no-such-archive.mix"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := Locate(root, "no-such-archive.mix")
	if !errors.Is(err, ErrArchiveNotFound) {
		t.Fatalf("want ErrArchiveNotFound, got %v", err)
	}
}

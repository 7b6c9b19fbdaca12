package local

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/quarry-dev/quarry/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestListFilesTopLevelOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A")
	writeFile(t, dir, "b.md", "# B")
	writeFile(t, dir, "notes.txt", "skip me")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "nested"), "c.md", "# C")

	templates, err := Enumerator{}.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	// Local mode is non-recursive: nested/c.md must not appear.
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}
	for _, tmpl := range templates {
		if tmpl.Name != "a" && tmpl.Name != "b" {
			t.Errorf("unexpected template %q", tmpl.Name)
		}
		if !filepath.IsAbs(tmpl.DownloadRef) {
			t.Errorf("expected absolute download ref, got %q", tmpl.DownloadRef)
		}
	}
}

func TestListFilesReadsFrontmatterDescription(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "described.md", "---\ndescription: A starter template\n---\n\n# Body\n")
	writeFile(t, dir, "plain.md", "# No frontmatter here\n")

	templates, err := Enumerator{}.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	byName := map[string]string{}
	for _, tmpl := range templates {
		byName[tmpl.Name] = tmpl.Description
	}
	if byName["described"] != "A starter template" {
		t.Errorf("expected frontmatter description, got %q", byName["described"])
	}
	if byName["plain"] != "" {
		t.Errorf("expected empty description for plain template, got %q", byName["plain"])
	}
}

func TestListFilesMissingRoot(t *testing.T) {
	_, err := Enumerator{}.ListFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected missing root to fail")
	}
	appErr := apperrors.GetAppError(err)
	if appErr.Code != apperrors.ErrCodeLocalPath {
		t.Errorf("expected LOCAL_PATH_ERROR, got %s", appErr.Code)
	}
}

func TestParseFrontmatterUnterminated(t *testing.T) {
	_, err := ParseFrontmatter([]byte("---\ndescription: oops\n"))
	if err == nil {
		t.Error("expected unterminated frontmatter to fail")
	}
}

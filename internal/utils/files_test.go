package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	if err := utils.SafeWriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("content = %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"rows\": 3\n}" {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"MPG vs Horsepower by Origin": "mpg-vs-horsepower-by-origin",
		"  Distribution of MPG!  ":    "distribution-of-mpg",
		"":                            "",
	}
	for in, want := range cases {
		if got := utils.Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

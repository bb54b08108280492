package collection

import (
	"path/filepath"
	"testing"
)

type JSON = map[string]any

func Environment(t *testing.T, f func(filename string)) {
	t.Helper()
	f(filepath.Join(t.TempDir(), "collection"))
}

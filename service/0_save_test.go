package service

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

func TestCropTabs(t *testing.T) {

	d := `
		first line
			indented
		last line
	`

	biff.AssertEqual(cropTabs(d), "\nfirst line\n\tindented\nlast line\n\t")
	biff.AssertEqual(cropTabs("no tabs"), "no tabs")
}

func TestSave(t *testing.T) {

	dir := t.TempDir()
	t.Setenv(ExamplesPathEnv, dir)

	api := apitest.NewWithHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hello":"world"}`))
	}))

	resp := api.Request("POST", "/greet").WithBodyString(`{"name":"Fulanez"}`).Do()
	Save(resp, "Greet someone", ``)

	content, err := os.ReadFile(filepath.Join(dir, "greet_someone.md"))
	biff.AssertNil(err)

	s := string(content)
	biff.AssertTrue(strings.HasPrefix(s, "# Greet someone\n"))
	biff.AssertTrue(strings.Contains(s, `curl -X POST "https://example.com/greet"`))
	biff.AssertTrue(strings.Contains(s, "\"hello\": \"world\""))
	biff.AssertTrue(strings.Contains(s, "\"name\": \"Fulanez\""))
}

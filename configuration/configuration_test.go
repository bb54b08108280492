package configuration

import (
	"testing"

	"github.com/fulldump/biff"
)

func TestDefault(t *testing.T) {

	c := Default()

	biff.AssertEqual(c.HttpAddr, "127.0.0.1:8080")
	biff.AssertEqual(c.Dir, "data")
	biff.AssertEqual(c.KeyField, "id")
	biff.AssertEqual(c.LogLevel, "info")
	biff.AssertEqual(c.ApiKey, "")
	biff.AssertTrue(c.EnableCompression)
	biff.AssertFalse(c.HttpsEnabled)
	biff.AssertFalse(c.Version)
}

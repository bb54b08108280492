package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/nilsmartel/hotel/database"
	"github.com/nilsmartel/hotel/service"
)

func TestPrettyError(t *testing.T) {

	expected := map[string]any{
		"error": map[string]any{
			"message":     "not implemented",
			"description": "this endpoint does not exist, please check the documentation",
		},
	}

	biff.Alternative("Envelope", func(a *biff.A) {

		a.Alternative("Marshal", func(a *biff.A) {
			data, err := json.Marshal(PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			})
			biff.AssertNil(err)
			biff.AssertEqualJson(json.RawMessage(data), expected)
		})

		a.Alternative("Write", func(a *biff.A) {
			w := httptest.NewRecorder()
			writePrettyError(w, http.StatusNotImplemented, "not implemented",
				"this endpoint does not exist, please check the documentation")
			biff.AssertEqual(w.Code, http.StatusNotImplemented)
			biff.AssertEqualJson(json.RawMessage(w.Body.Bytes()), expected)
		})

		a.Alternative("Unknown endpoint", func(a *biff.A) {
			db := database.NewDatabase(&database.Config{Dir: t.TempDir()})
			b := Build(service.NewService(db), "test", "", "")
			b.WithInterceptors(PrettyErrorInterceptor)

			resp := apitest.NewWithHandler(b).Request("GET", "/v1/nothing").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNotImplemented)
			biff.AssertEqualJson(resp.BodyJson(), expected)
		})
	})
}

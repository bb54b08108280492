package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// decodeLines decodes every JSON value in body.
func decodeLines(body string) []interface{} {
	result := []interface{}{}
	d := json.NewDecoder(strings.NewReader(body))
	for {
		var item interface{}
		if err := d.Decode(&item); err != nil {
			return result
		}
		result = append(result, item)
	}
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections").
			WithBodyJson(JSON{
				"name": "my-collection",
			}).Do()
		Save(resp, "Create collection", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		emptyCollection := JSON{
			"name":      "my-collection",
			"key_field": "id",
			"total":     0,
			"slots":     0,
			"holes":     0,
			"indexes":   0,
		}
		biff.AssertEqualJson(resp.BodyJson(), emptyCollection)

		a.Alternative("Retrieve collection", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/my-collection").Do()
			Save(resp, "Retrieve collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), emptyCollection)
		})

		a.Alternative("List collections", func(a *biff.A) {
			resp := apiRequest("GET", "/collections").Do()
			Save(resp, "List collections", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{emptyCollection})
		})

		a.Alternative("Create it again", func(a *biff.A) {
			resp := apiRequest("POST", "/collections").
				WithBodyJson(JSON{
					"name": "my-collection",
				}).Do()
			Save(resp, "Create collection - conflict", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Drop collection", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:dropCollection").
				Do()
			Save(resp, "Drop collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

			a.Alternative("Get dropped collection", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection").
					Do()
				Save(resp, "Get collection - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Insert one", func(a *biff.A) {
			myDocument := JSON{
				"id":      "my-id",
				"name":    "Fulanez",
				"address": "Elm Street 11",
			}
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyJson(myDocument).Do()
			Save(resp, "Insert one", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			myRow := JSON{
				"index":    0,
				"key":      "my-id",
				"document": myDocument,
			}
			biff.AssertEqualJson(resp.BodyJson(), myRow)

			a.Alternative("Find with fullscan", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"mode":  "fullscan",
						"skip":  0,
						"limit": 1,
						"filter": JSON{
							"name": "Fulanez",
						},
					}).Do()
				Save(resp, "Find - fullscan", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), myRow)
			})

			a.Alternative("Find by key", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"mode": "key",
						"key":  "my-id",
					}).Do()
				Save(resp, "Find - by key", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), myRow)
			})

			a.Alternative("Find by slot index", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"mode":  "index",
						"index": 0,
					}).Do()
				Save(resp, "Find - by slot index", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), myRow)
			})

			a.Alternative("Find with bad mode", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"mode": "teleport",
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Get document", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection/documents/my-id").Do()
				Save(resp, "Get document", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), myRow)
			})

			a.Alternative("Get missing document", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection/documents/nope").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Insert same key", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:insert").
					WithBodyJson(JSON{"id": "my-id", "name": "Menganez"}).Do()
				Save(resp, "Insert - overwrite", `
					A document with an existing key replaces the stored one and keeps its slot index.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusCreated)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"index":    0,
					"key":      "my-id",
					"document": JSON{"id": "my-id", "name": "Menganez"},
				})
			})

			a.Alternative("Try insert same key", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:tryInsert").
					WithBodyJson(JSON{"id": "my-id", "name": "Menganez"}).Do()
				Save(resp, "Try insert - conflict", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)

				resp = apiRequest("GET", "/collections/my-collection/documents/my-id").Do()
				biff.AssertEqualJson(resp.BodyJson(), myRow)
			})

			a.Alternative("Patch", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:patch").
					WithBodyJson(JSON{
						"key": "my-id",
						"patch": JSON{
							"name":    "Menganez",
							"address": nil,
						},
					}).Do()
				Save(resp, "Patch", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"index":    0,
					"key":      "my-id",
					"document": JSON{"id": "my-id", "name": "Menganez"},
				})
			})

			a.Alternative("Patch the key", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:patch").
					WithBodyJson(JSON{
						"key":   "my-id",
						"patch": JSON{"id": "other-id"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Patch missing key", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:patch").
					WithBodyJson(JSON{
						"key":   "nope",
						"patch": JSON{"name": "Nobody"},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Insert many", func(a *biff.A) {

			myDocuments := []JSON{
				{"id": "1", "name": "Alfonso"},
				{"id": "2", "name": "Gerardo"},
				{"id": "3", "name": "Alfonso"},
			}

			body := ""
			for _, myDocument := range myDocuments {
				myDocument, _ := json.Marshal(myDocument)
				body += string(myDocument) + "\n"
			}
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(body).Do()
			Save(resp, "Insert many", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			myRows := []JSON{
				{"index": 0, "key": "1", "document": myDocuments[0]},
				{"index": 1, "key": "2", "document": myDocuments[1]},
				{"index": 2, "key": "3", "document": myDocuments[2]},
			}
			biff.AssertEqualJson(decodeLines(resp.BodyString()), myRows)

			a.Alternative("Find with limit", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{"limit": 10, "filter": JSON{"name": "Alfonso"}}).Do()
				Save(resp, "Find - fullscan with limit 10", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{myRows[0], myRows[2]})
			})

			a.Alternative("Drain", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:drain").Do()
				Save(resp, "Drain", `
					Removes every document, returning them in slot order. Slots are kept
					and reused by later inserts, the last drained slot first.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyString()), myRows)

				resp = apiRequest("POST", "/collections/my-collection:size").Do()
				Save(resp, "Size", ``)
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				size := resp.BodyJsonMap()
				biff.AssertEqual(size["total"], json.Number("0"))
				biff.AssertEqual(size["slots"], json.Number("3"))
				biff.AssertEqual(size["holes"], json.Number("3"))

				resp = apiRequest("POST", "/collections/my-collection:insert").
					WithBodyJson(JSON{"id": "4", "name": "Pedro"}).Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"index":    2,
					"key":      "4",
					"document": JSON{"id": "4", "name": "Pedro"},
				})
			})

			a.Alternative("Create index", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:createIndex").
					WithBodyJson(JSON{"name": "by-name", "field": "name"}).Do()
				Save(resp, "Create index", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusCreated)
				myIndex := JSON{"name": "by-name", "type": "btree", "field": "name"}
				biff.AssertEqualJson(resp.BodyJson(), myIndex)

				a.Alternative("Create it again", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:createIndex").
						WithBodyJson(JSON{"name": "by-name", "field": "name"}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusConflict)
				})

				a.Alternative("List indexes", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:listIndexes").Do()
					Save(resp, "List indexes", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), []JSON{myIndex})
				})

				a.Alternative("Get index", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:getIndex").
						WithBodyJson(JSON{"name": "by-name"}).Do()
					Save(resp, "Get index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), myIndex)
				})

				a.Alternative("Drop index", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:dropIndex").
						WithBodyJson(JSON{"name": "by-name"}).Do()
					Save(resp, "Drop index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

					resp = apiRequest("POST", "/collections/my-collection:getIndex").
						WithBodyJson(JSON{"name": "by-name"}).Do()
					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})

				a.Alternative("Find with btree", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:find").
						WithBodyJson(JSON{
							"mode":  "btree",
							"name":  "by-name",
							"limit": 10,
						}).Do()
					Save(resp, "Find - btree", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{myRows[0], myRows[2], myRows[1]})
				})

				a.Alternative("Find with btree reverse range", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:find").
						WithBodyJson(JSON{
							"mode":    "btree",
							"name":    "by-name",
							"reverse": true,
							"from":    "Alfonso",
							"to":      "Gerardo",
							"limit":   10,
						}).Do()
					Save(resp, "Find - btree reverse range", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{myRows[2], myRows[0]})
				})

				a.Alternative("Find with missing btree", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:find").
						WithBodyJson(JSON{
							"mode": "btree",
							"name": "nope",
						}).Do()

					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})
			})
		})
	})

	a.Alternative("Create collection with key field", func(a *biff.A) {
		resp := apiRequest("POST", "/collections").
			WithBodyJson(JSON{
				"name":      "users",
				"key_field": "email",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		resp = apiRequest("POST", "/collections/users:insert").
			WithBodyJson(JSON{"email": "fulanez@example.com"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqual(resp.BodyJsonMap()["key"], "fulanez@example.com")
	})

	a.Alternative("Create collection with bad name", func(a *biff.A) {
		resp := apiRequest("POST", "/collections").
			WithBodyJson(JSON{
				"name": "",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Insert creates the collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/auto:insert").
			WithBodyJson(JSON{"name": "no key"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		row := resp.BodyJsonMap()
		biff.AssertEqual(row["index"], json.Number("0"))
		biff.AssertNotNil(row["key"])

		resp = apiRequest("GET", "/collections/auto").Do()
		biff.AssertEqual(resp.StatusCode, http.StatusOK)
	})

	a.Alternative("Insert nothing", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/empty:insert").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
	})

	a.Alternative("Insert malformed JSON", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/broken:insert").
			WithBodyString(`{"id": `).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Insert a non object", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/broken:insert").
			WithBodyString(`[1, 2, 3]`).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Missing collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/nope:find").
			WithBodyJson(JSON{}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})
}

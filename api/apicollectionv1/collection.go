package apicollectionv1

import (
	"encoding/json"
	"errors"

	"github.com/nilsmartel/hotel/collection"
)

// ErrBadRequest wraps errors caused by a malformed request.
var ErrBadRequest = errors.New("bad request")

type CollectionResponse struct {
	Name     string `json:"name"`
	KeyField string `json:"key_field"`
	Total    int    `json:"total"`
	Slots    int    `json:"slots"`
	Holes    int    `json:"holes"`
	Indexes  int    `json:"indexes"`
}

func newCollectionResponse(name string, col *collection.Collection) *CollectionResponse {
	return &CollectionResponse{
		Name:     name,
		KeyField: col.Options().KeyField,
		Total:    col.Len(),
		Slots:    col.Floor(),
		Holes:    col.Holes(),
		Indexes:  len(col.ListIndexes()),
	}
}

type RowResponse struct {
	Index    int             `json:"index"`
	Key      string          `json:"key"`
	Document json.RawMessage `json:"document"`
}

func newRowResponse(row *collection.Row) *RowResponse {
	return &RowResponse{
		Index:    row.I,
		Key:      row.Key,
		Document: row.Payload,
	}
}

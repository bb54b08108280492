package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/nilsmartel/hotel/collection"
)

// drain empties the collection, writing every removed row in slot order.
// Slots stay allocated and are reused by later inserts.
func drain(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	write := writeRow(w)

	return col.Drain(func(row *collection.Row) {
		write(row)
	})
}

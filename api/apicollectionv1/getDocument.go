package apicollectionv1

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulldump/box"

	"github.com/nilsmartel/hotel/collection"
)

func getDocument(ctx context.Context) (*RowResponse, error) {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")
	documentKey := strings.TrimSpace(box.GetUrlParameter(ctx, "documentKey"))

	if documentKey == "" {
		return nil, fmt.Errorf("%w: document key is required", ErrBadRequest)
	}

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	row, found := col.GetByKey(documentKey)
	if !found {
		return nil, fmt.Errorf("%w: document '%s'", collection.ErrNotFound, documentKey)
	}

	return newRowResponse(row), nil
}

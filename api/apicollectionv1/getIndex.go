package apicollectionv1

import (
	"context"
	"fmt"

	"github.com/fulldump/box"

	"github.com/nilsmartel/hotel/collection"
)

type getIndexInput struct {
	Name string `json:"name"`
}

func getIndex(ctx context.Context, input *getIndexInput) (*listIndexesItem, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	options, exists := col.ListIndexes()[input.Name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", collection.ErrIndexNotFound, input.Name)
	}

	return &listIndexesItem{
		Name:  input.Name,
		Type:  indexTypeBtree,
		Field: options.Field,
	}, nil
}

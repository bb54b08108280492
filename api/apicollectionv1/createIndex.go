package apicollectionv1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fulldump/box"

	"github.com/nilsmartel/hotel/collection"
)

type createIndexRequest struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}

func createIndex(ctx context.Context, w http.ResponseWriter, input *createIndexRequest) (*listIndexesItem, error) {

	if input.Name == "" || input.Field == "" {
		return nil, fmt.Errorf("%w: name and field are required", ErrBadRequest)
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetOrCreateCollection(collectionName)
	if err != nil {
		return nil, err
	}

	options := &collection.IndexBtreeOptions{
		Field: input.Field,
	}
	err = col.Index(input.Name, options)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)

	return &listIndexesItem{
		Name:  input.Name,
		Type:  indexTypeBtree,
		Field: options.Field,
	}, nil
}

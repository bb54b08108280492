package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/nilsmartel/hotel/collection"
)

type createCollectionRequest struct {
	Name     string `json:"name"`
	KeyField string `json:"key_field"`
	Capacity int    `json:"capacity"`
}

func createCollection(ctx context.Context, w http.ResponseWriter, input *createCollectionRequest) (*CollectionResponse, error) {

	s := GetServicer(ctx)

	col, err := s.CreateCollection(input.Name, &collection.Options{
		KeyField: input.KeyField,
		Capacity: input.Capacity,
	})
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newCollectionResponse(input.Name, col), nil
}

package apicollectionv1

import (
	"context"
	"fmt"

	"github.com/fulldump/box"
)

type patchRequest struct {
	Key   string `json:"key"`
	Patch any    `json:"patch"`
}

// patch applies a JSON merge patch to the document stored under key.
func patch(ctx context.Context, input *patchRequest) (*RowResponse, error) {

	if input.Key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrBadRequest)
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	row, err := col.Patch(input.Key, input.Patch)
	if err != nil {
		return nil, err
	}

	return newRowResponse(row), nil
}

package apicollectionv1

import (
	"context"

	"github.com/nilsmartel/hotel/utils"
)

func listCollections(ctx context.Context) ([]*CollectionResponse, error) {

	collections := GetServicer(ctx).ListCollections()

	result := []*CollectionResponse{}
	for _, name := range utils.GetKeys(collections) {
		result = append(result, newCollectionResponse(name, collections[name]))
	}

	return result, nil
}

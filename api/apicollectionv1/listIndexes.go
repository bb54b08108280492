package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/nilsmartel/hotel/utils"
)

const indexTypeBtree = "btree"

type listIndexesItem struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Field string `json:"field"`
}

func listIndexes(ctx context.Context) ([]*listIndexesItem, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	indexes := col.ListIndexes()

	result := []*listIndexesItem{}
	for _, name := range utils.GetKeys(indexes) {
		result = append(result, &listIndexesItem{
			Name:  name,
			Type:  indexTypeBtree,
			Field: indexes[name].Field,
		})
	}

	return result, nil
}

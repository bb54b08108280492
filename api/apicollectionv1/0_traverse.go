package apicollectionv1

import (
	"fmt"

	jsonv2 "github.com/go-json-experiment/json"

	"github.com/nilsmartel/hotel/collection"
)

func decodeParams(input []byte, params any) error {
	err := jsonv2.Unmarshal(input, params)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func traverseFullscan(input []byte, col *collection.Collection, f func(row *collection.Row)) error {

	params := &collection.FindOptions{
		Filter: map[string]any{},
		Skip:   0,
		Limit:  1,
	}
	err := decodeParams(input, params)
	if err != nil {
		return err
	}
	if params.Limit <= 0 {
		return nil
	}

	return col.Find(params, func(row *collection.Row) bool {
		f(row)
		return true
	})
}

func traverseKey(input []byte, col *collection.Collection, f func(row *collection.Row)) error {

	params := &struct {
		Key string `json:"key"`
	}{}
	err := decodeParams(input, params)
	if err != nil {
		return err
	}

	row, found := col.GetByKey(params.Key)
	if found {
		f(row)
	}

	return nil
}

func traverseIndex(input []byte, col *collection.Collection, f func(row *collection.Row)) error {

	params := &struct {
		Index int `json:"index"`
	}{}
	err := decodeParams(input, params)
	if err != nil {
		return err
	}

	row, found := col.GetByIndex(params.Index)
	if found {
		f(row)
	}

	return nil
}

func traverseBtree(input []byte, col *collection.Collection, f func(row *collection.Row)) error {

	params := &struct {
		Name string `json:"name"`
		Skip int64  `json:"skip"`
		// Limit 0 returns nothing, like fullscan
		Limit int64 `json:"limit"`

		collection.IndexBtreeTraverse `json:",inline"`
	}{
		Limit: 1,
	}
	err := decodeParams(input, params)
	if err != nil {
		return err
	}

	skip := params.Skip
	limit := params.Limit
	if limit <= 0 {
		return nil
	}

	return col.TraverseIndex(params.Name, &params.IndexBtreeTraverse, func(row *collection.Row) bool {
		if skip > 0 {
			skip--
			return true
		}
		f(row)
		limit--
		return limit > 0
	})
}

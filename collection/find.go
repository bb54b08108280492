package collection

import (
	"fmt"

	"github.com/SierraSoftworks/connor"
	jsonv2 "github.com/go-json-experiment/json"
)

type FindOptions struct {
	Filter map[string]any `json:"filter"`
	Skip   int64          `json:"skip"`
	Limit  int64          `json:"limit"` // 0 means no limit
}

// Find visits, in slot order, the rows matching options.Filter.
func (c *Collection) Find(options *FindOptions, f func(row *Row) bool) error {

	if options == nil {
		options = &FindOptions{}
	}

	hasFilter := len(options.Filter) > 0
	skip := options.Skip
	limit := options.Limit

	var err error
	c.Traverse(func(row *Row) bool {

		if hasFilter {
			rowData := map[string]any{}
			err = jsonv2.Unmarshal(row.Payload, &rowData)
			if err != nil {
				err = fmt.Errorf("decode row %d: %w", row.I, err)
				return false
			}

			match, matchErr := connor.Match(options.Filter, rowData)
			if matchErr != nil {
				err = fmt.Errorf("match: %w", matchErr)
				return false
			}
			if !match {
				return true
			}
		}

		if skip > 0 {
			skip--
			return true
		}

		if !f(row) {
			return false
		}

		if limit > 0 {
			limit--
			if limit == 0 {
				return false
			}
		}

		return true
	})

	return err
}

package collection

import (
	"fmt"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/google/btree"
	"github.com/tidwall/gjson"
)

type IndexBtree struct {
	Btree   *btree.BTreeG[*RowOrdered]
	Options *IndexBtreeOptions
}

type IndexBtreeOptions struct {
	Field string `json:"field"`
}

type IndexBtreeTraverse struct {
	Reverse bool `json:"reverse"`
	From    any  `json:"from"`
	To      any  `json:"to"`
}

// RowOrdered is a btree item. Pivots used for range traversal have no Row.
type RowOrdered struct {
	*Row
	Value gjson.Result
}

func (r *RowOrdered) slot() int {
	if r.Row == nil {
		return -1
	}
	return r.Row.I
}

func NewIndexBtree(options *IndexBtreeOptions) *IndexBtree {
	return &IndexBtree{
		Btree:   btree.NewG(32, lessRowOrdered),
		Options: options,
	}
}

// rank orders values of different types: numbers, then strings, then the rest.
func rank(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		return 0
	case gjson.String:
		return 1
	default:
		return 2
	}
}

func compareValues(a, b gjson.Result) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch a.Type {
	case gjson.Number:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	case gjson.String:
		return strings.Compare(a.Str, b.Str)
	default:
		return strings.Compare(a.Raw, b.Raw)
	}
}

func lessRowOrdered(a, b *RowOrdered) bool {
	if c := compareValues(a.Value, b.Value); c != 0 {
		return c < 0
	}
	return a.slot() < b.slot()
}

func (b *IndexBtree) value(r *Row) (gjson.Result, bool) {
	value := gjson.GetBytes(r.Payload, b.Options.Field)
	return value, value.Exists()
}

// AddRow indexes r. Rows without the field are not indexed.
func (b *IndexBtree) AddRow(r *Row) {
	value, exists := b.value(r)
	if !exists {
		return
	}
	b.Btree.ReplaceOrInsert(&RowOrdered{
		Row:   r,
		Value: value,
	})
}

func (b *IndexBtree) RemoveRow(r *Row) {
	value, exists := b.value(r)
	if !exists {
		return
	}
	b.Btree.Delete(&RowOrdered{
		Row:   r,
		Value: value,
	})
}

func (b *IndexBtree) Len() int {
	return b.Btree.Len()
}

func (b *IndexBtree) Reset() {
	b.Btree.Clear(false)
}

func pivot(v any) (*RowOrdered, error) {
	raw, err := jsonv2.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal pivot: %w", err)
	}
	return &RowOrdered{Value: gjson.ParseBytes(raw)}, nil
}

// Traverse visits indexed rows with From <= value < To, ascending or
// descending. Rows with equal values come in slot order.
func (b *IndexBtree) Traverse(options *IndexBtreeTraverse, f func(*Row) bool) error {

	if options == nil {
		options = &IndexBtreeTraverse{}
	}

	iterator := func(r *RowOrdered) bool {
		return f(r.Row)
	}

	hasFrom := options.From != nil
	hasTo := options.To != nil

	var pivotFrom, pivotTo *RowOrdered
	var err error
	if hasFrom {
		pivotFrom, err = pivot(options.From)
		if err != nil {
			return err
		}
	}
	if hasTo {
		pivotTo, err = pivot(options.To)
		if err != nil {
			return err
		}
	}

	if !hasFrom && !hasTo {
		if options.Reverse {
			b.Btree.Descend(iterator)
		} else {
			b.Btree.Ascend(iterator)
		}
	} else if hasFrom && !hasTo {
		if options.Reverse {
			b.Btree.DescendGreaterThan(pivotFrom, iterator)
		} else {
			b.Btree.AscendGreaterOrEqual(pivotFrom, iterator)
		}
	} else if !hasFrom && hasTo {
		if options.Reverse {
			b.Btree.DescendLessOrEqual(pivotTo, iterator)
		} else {
			b.Btree.AscendLessThan(pivotTo, iterator)
		}
	} else {
		if options.Reverse {
			b.Btree.DescendRange(pivotTo, pivotFrom, iterator)
		} else {
			b.Btree.AscendRange(pivotFrom, pivotTo, iterator)
		}
	}

	return nil
}

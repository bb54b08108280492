package collection

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/fulldump/biff"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

func rowKeys(c *Collection) []string {
	keys := []string{}
	c.Traverse(func(row *Row) bool {
		keys = append(keys, row.Key)
		return true
	})
	return keys
}

func TestInsert(t *testing.T) {
	Environment(t, func(filename string) {

		// Setup
		c, err := OpenCollection(filename, nil)
		biff.AssertNil(err)
		defer c.Close()

		// Run
		row, err := c.Insert(JSON{"id": "my-id", "hello": "world"})

		// Check
		biff.AssertNil(err)
		biff.AssertEqual(row.I, 0)
		biff.AssertEqual(row.Key, "my-id")
		biff.AssertEqualJson(json.RawMessage(row.Payload), JSON{"id": "my-id", "hello": "world"})

		fileContent, _ := os.ReadFile(filename)
		lines := strings.Split(strings.TrimSpace(string(fileContent)), "\n")
		biff.AssertEqual(len(lines), 2)

		command := &Command{}
		jsonv2.Unmarshal([]byte(lines[1]), command)
		biff.AssertEqual(command.Name, CommandInsert)
		biff.AssertEqualJson(json.RawMessage(command.Payload), JSON{"id": "my-id", "hello": "world"})
	})
}

func TestInsert_GeneratesKey(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		row, err := c.Insert(JSON{"hello": "world"})
		biff.AssertNil(err)

		_, err = uuid.Parse(row.Key)
		biff.AssertNil(err)

		item := JSON{}
		json.Unmarshal(row.Payload, &item)
		biff.AssertEqual(item["id"], row.Key)
	})
}

func TestInsert_NumericKey(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, &Options{KeyField: "n"})
		defer c.Close()

		row, err := c.Insert(JSON{"n": 42})
		biff.AssertNil(err)
		biff.AssertEqual(row.Key, "42")
		biff.AssertTrue(c.Contains("42"))
	})
}

func TestInsert_InvalidKey(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		_, err := c.Insert(JSON{"id": JSON{"nested": true}})
		biff.AssertTrue(errors.Is(err, ErrInvalidKey))

		_, err = c.Insert([]int{1, 2, 3})
		biff.AssertTrue(errors.Is(err, ErrInvalidDocument))

		biff.AssertEqual(c.Len(), 0)
	})
}

func TestInsert_KeyTypes(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		text, err := c.Insert(JSON{"id": "1", "v": "string"})
		biff.AssertNil(err)
		biff.AssertEqual(text.I, 0)
		biff.AssertEqual(text.Key, "1")

		_, err = c.Insert(jsontext.Value(`{"id":1,"v":"number"}`))
		biff.AssertTrue(errors.Is(err, ErrKeyConflict))

		_, err = c.TryInsert(jsontext.Value(`{"id":1}`))
		biff.AssertTrue(errors.Is(err, ErrKeyConflict))

		float, err := c.Insert(jsontext.Value(`{"id":1.0,"v":"float"}`))
		biff.AssertNil(err)
		biff.AssertEqual(float.I, 1)
		biff.AssertEqual(float.Key, "1.0")

		again, err := c.Insert(jsontext.Value(`{"id":1.0,"v":"again"}`))
		biff.AssertNil(err)
		biff.AssertEqual(again.I, 1)

		_, err = c.Patch("1", JSON{"id": 1})
		biff.AssertTrue(errors.Is(err, ErrKeyChanged))

		row, found := c.GetByKey("1")
		biff.AssertTrue(found)
		biff.AssertEqualJson(json.RawMessage(row.Payload), JSON{"id": "1", "v": "string"})
		biff.AssertEqual(c.Len(), 2)
	})
}

func TestInsert_Overwrite(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		first, _ := c.Insert(JSON{"id": "a", "v": 1})
		c.Insert(JSON{"id": "b", "v": 2})
		second, err := c.Insert(JSON{"id": "a", "v": 3})

		biff.AssertNil(err)
		biff.AssertEqual(second.I, first.I)
		biff.AssertEqual(c.Len(), 2)
		biff.AssertEqual(c.Floor(), 2)

		row, found := c.GetByKey("a")
		biff.AssertTrue(found)
		biff.AssertEqualJson(json.RawMessage(row.Payload), JSON{"id": "a", "v": 3})
	})
}

func TestTryInsert(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		row, err := c.TryInsert(JSON{"id": "a", "v": 1})
		biff.AssertNil(err)
		biff.AssertEqual(row.I, 0)

		_, err = c.TryInsert(JSON{"id": "a", "v": 2})
		biff.AssertTrue(errors.Is(err, ErrKeyConflict))

		row, _ = c.GetByKey("a")
		biff.AssertEqualJson(json.RawMessage(row.Payload), JSON{"id": "a", "v": 1})
		biff.AssertEqual(c.Floor(), 1)
	})
}

func TestGetByIndex(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		c.Insert(JSON{"id": "a"})
		c.Insert(JSON{"id": "b"})

		row, found := c.GetByIndex(1)
		biff.AssertTrue(found)
		biff.AssertEqual(row.Key, "b")

		_, found = c.GetByIndex(2)
		biff.AssertFalse(found)
	})
}

func TestPatch(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		c.Insert(JSON{"id": "a", "name": "Alice", "age": 30})

		_, err := c.Patch("zzz", JSON{"age": 31})
		biff.AssertTrue(errors.Is(err, ErrNotFound))

		_, err = c.Patch("a", JSON{"id": "b"})
		biff.AssertTrue(errors.Is(err, ErrKeyChanged))

		row, _ := c.GetByKey("a")
		biff.AssertEqualJson(json.RawMessage(row.Payload), JSON{"id": "a", "name": "Alice", "age": 30})

		row, err = c.Patch("a", JSON{"age": 31, "name": nil})
		biff.AssertNil(err)
		biff.AssertEqual(row.I, 0)
		biff.AssertEqualJson(json.RawMessage(row.Payload), JSON{"id": "a", "age": 31})
	})
}

func TestDrain(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		c.Insert(JSON{"id": "a"})
		c.Insert(JSON{"id": "b"})
		c.Insert(JSON{"id": "c"})
		c.Index("by-id", &IndexBtreeOptions{Field: "id"})

		drained := []string{}
		err := c.Drain(func(row *Row) {
			drained = append(drained, row.Key)
		})

		biff.AssertNil(err)
		biff.AssertEqual(drained, []string{"a", "b", "c"})
		biff.AssertEqual(c.Len(), 0)
		biff.AssertEqual(c.Holes(), 3)
		biff.AssertFalse(c.Contains("a"))
		biff.AssertEqual(c.Indexes["by-id"].Len(), 0)

		// Last drained slot is reused first
		row, _ := c.Insert(JSON{"id": "d"})
		biff.AssertEqual(row.I, 2)
	})
}

func TestFind(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		for i := 0; i < 10; i++ {
			c.Insert(JSON{"id": string(rune('a' + i)), "n": i})
		}

		biff.Alternative("Find", func(a *biff.A) {

			a.Alternative("Filter", func(a *biff.A) {
				keys := []string{}
				err := c.Find(&FindOptions{
					Filter: JSON{"n": JSON{"$gte": 7}},
				}, func(row *Row) bool {
					keys = append(keys, row.Key)
					return true
				})
				biff.AssertNil(err)
				biff.AssertEqual(keys, []string{"h", "i", "j"})
			})

			a.Alternative("Skip and limit", func(a *biff.A) {
				keys := []string{}
				err := c.Find(&FindOptions{
					Skip:  2,
					Limit: 3,
				}, func(row *Row) bool {
					keys = append(keys, row.Key)
					return true
				})
				biff.AssertNil(err)
				biff.AssertEqual(keys, []string{"c", "d", "e"})
			})
		})
	})
}

func TestIndex(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		c.Insert(JSON{"id": "a", "age": 40})
		c.Insert(JSON{"id": "b", "age": 20})

		biff.AssertNil(c.Index("by-age", &IndexBtreeOptions{Field: "age"}))
		biff.AssertTrue(errors.Is(c.Index("by-age", &IndexBtreeOptions{Field: "age"}), ErrIndexExists))

		// Insert and overwrite after index
		c.Insert(JSON{"id": "c", "age": 30})
		c.Insert(JSON{"id": "a", "age": 10})

		keys := []string{}
		err := c.TraverseIndex("by-age", &IndexBtreeTraverse{}, func(row *Row) bool {
			keys = append(keys, row.Key)
			return true
		})
		biff.AssertNil(err)
		biff.AssertEqual(keys, []string{"a", "b", "c"})

		err = c.TraverseIndex("missing", nil, func(row *Row) bool { return true })
		biff.AssertTrue(errors.Is(err, ErrIndexNotFound))

		biff.AssertEqual(c.ListIndexes(), map[string]*IndexBtreeOptions{
			"by-age": {Field: "age"},
		})

		biff.AssertNil(c.DropIndex("by-age"))
		biff.AssertEqual(c.ListIndexes(), map[string]*IndexBtreeOptions{})
		biff.AssertTrue(errors.Is(c.DropIndex("by-age"), ErrIndexNotFound))
	})
}

func TestTraverseEntries(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		c.Insert(JSON{"id": "z"})
		c.Insert(JSON{"id": "y"})

		keys := []string{}
		c.TraverseEntries(func(row *Row) bool {
			keys = append(keys, row.Key)
			return true
		})
		biff.AssertEqual(keys, []string{"z", "y"})
	})
}

func TestReplay(t *testing.T) {
	Environment(t, func(filename string) {

		// Setup
		c, _ := OpenCollection(filename, &Options{KeyField: "name"})
		c.Insert(JSON{"name": "a", "v": 1})
		c.Insert(JSON{"name": "b", "v": 2})
		c.Insert(JSON{"name": "c", "v": 3})
		c.Index("by-v", &IndexBtreeOptions{Field: "v"})
		c.Index("by-name", &IndexBtreeOptions{Field: "name"})
		c.DropIndex("by-name")
		c.Drain(func(row *Row) {})
		c.Insert(JSON{"name": "d", "v": 4})
		c.Insert(JSON{"name": "e", "v": 5})
		c.Patch("d", JSON{"v": 40})
		c.Insert(JSON{"name": "e", "v": 50})
		expectedKeys := rowKeys(c)
		c.Close()

		// Run
		c, err := OpenCollection(filename, &Options{KeyField: "other"})
		biff.AssertNil(err)
		defer c.Close()

		// Check
		biff.AssertEqual(c.Options().KeyField, "name")
		biff.AssertEqual(rowKeys(c), expectedKeys)
		biff.AssertEqual(c.Len(), 2)
		biff.AssertEqual(c.Floor(), 3)

		d, _ := c.GetByKey("d")
		biff.AssertEqual(d.I, 2)
		biff.AssertEqualJson(json.RawMessage(d.Payload), JSON{"name": "d", "v": 40})

		e, _ := c.GetByKey("e")
		biff.AssertEqual(e.I, 1)
		biff.AssertEqualJson(json.RawMessage(e.Payload), JSON{"name": "e", "v": 50})

		biff.AssertEqual(c.Indexes["by-v"].Len(), 2)
		biff.AssertEqual(len(c.ListIndexes()), 1)
	})
}

func TestClosed(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		biff.AssertNil(c.Close())

		_, err := c.Insert(JSON{"id": "a"})
		biff.AssertTrue(errors.Is(err, ErrClosed))
		biff.AssertTrue(errors.Is(c.Close(), ErrClosed))
	})
}

func TestCollection_Insert_Concurrency(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		defer c.Close()

		n := 100

		wg := &sync.WaitGroup{}
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Insert(JSON{"hello": "world"})
			}()
		}

		wg.Wait()

		biff.AssertEqual(c.Len(), n)
		biff.AssertEqual(c.Floor(), n)
	})
}

func TestDrop(t *testing.T) {
	Environment(t, func(filename string) {

		c, _ := OpenCollection(filename, nil)
		biff.AssertNil(c.Drop())

		_, err := os.Stat(filename)
		biff.AssertTrue(os.IsNotExist(err))
	})
}

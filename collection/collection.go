package collection

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	jsonpatch "github.com/evanphx/json-patch"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/nilsmartel/hotel"
	"github.com/nilsmartel/hotel/logger"
)

// Collection keeps JSON documents in a hotel.Map keyed by the value of
// Options.KeyField. Every change is appended to a command log that is
// replayed on open; replaying yields the same slot indexes.
type Collection struct {
	filename string // Just informative...
	file     *os.File
	options  *Options
	rows     *hotel.Map[string, *Row]
	Indexes  map[string]*IndexBtree
	mutex    *sync.RWMutex
}

// OpenCollection replays filename and opens it for append. options only
// apply to a new file; an existing file keeps the options it was created
// with.
func OpenCollection(filename string, options *Options) (*Collection, error) {

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for read: %w", err)
	}
	defer f.Close()

	collection := &Collection{
		filename: filename,
		Indexes:  map[string]*IndexBtree{},
		mutex:    &sync.RWMutex{},
	}

	log := logger.WithPrefix("collection").WithField("filename", filename)

	stored := false
	d := jsontext.NewDecoder(f)
	for i := 0; ; i++ {
		value, err := d.ReadValue()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// TODO: tolerate a truncated last line left by a crash
			return nil, fmt.Errorf("decode command %d: %w", i, err)
		}

		command := &Command{}
		err = jsonv2.Unmarshal(value, command)
		if err != nil {
			return nil, fmt.Errorf("decode command %d: %w", i, err)
		}

		if i == 0 && command.Name == CommandOptions {
			storedOptions := &Options{}
			err := jsonv2.Unmarshal(command.Payload, storedOptions)
			if err != nil {
				return nil, fmt.Errorf("decode options: %w", err)
			}
			options = storedOptions
			stored = true
			continue
		}
		if collection.rows == nil {
			collection.init(options)
		}

		err = collection.apply(command)
		if err != nil {
			log.WithError(err).Warnf("replay command %d '%s'", i, command.Name)
		}
	}

	if collection.rows == nil {
		collection.init(options)
	}

	// Open file for append only
	collection.file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	if !stored {
		err = collection.persist(CommandOptions, collection.options)
		if err != nil {
			collection.file.Close()
			return nil, err
		}
	}

	return collection, nil
}

func (c *Collection) init(options *Options) {
	c.options = options.withDefaults()
	c.rows = hotel.NewMapWithCapacity[string, *Row](c.options.Capacity)
}

// apply executes a command read from the log.
func (c *Collection) apply(command *Command) error {

	switch command.Name {
	case CommandInsert:
		_, err := c.insertPayload(command.Payload, false)
		return err
	case CommandPatch:
		params := &patchCommand{}
		err := jsonv2.Unmarshal(command.Payload, params)
		if err != nil {
			return fmt.Errorf("decode patch: %w", err)
		}
		_, row, exists := c.rows.GetByKey(params.Key)
		if !exists {
			return fmt.Errorf("%w: key '%s'", ErrNotFound, params.Key)
		}
		newPayload, err := jsonpatch.MergePatch(row.Payload, params.Diff)
		if err != nil {
			return fmt.Errorf("cannot apply patch: %w", err)
		}
		_, err = c.replaceRow(row, newPayload)
		return err
	case CommandIndex:
		params := &indexCommand{}
		err := jsonv2.Unmarshal(command.Payload, params)
		if err != nil {
			return fmt.Errorf("decode index: %w", err)
		}
		return c.createIndex(params.Name, params.Options)
	case CommandDropIndex:
		params := &dropIndexCommand{}
		err := jsonv2.Unmarshal(command.Payload, params)
		if err != nil {
			return fmt.Errorf("decode drop index: %w", err)
		}
		return c.dropIndex(params.Name)
	case CommandDrain:
		c.drain(func(*Row) {})
		return nil
	case CommandOptions:
		return fmt.Errorf("options can only be the first command")
	}

	return fmt.Errorf("unknown command '%s'", command.Name)
}

func (c *Collection) persist(name string, payload any) error {

	data, err := jsonv2.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	line, err := jsonv2.Marshal(newCommand(name, data))
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}
	line = append(line, '\n')

	_, err = c.file.Write(line)
	if err != nil {
		return fmt.Errorf("write command: %w", err)
	}

	return nil
}

// keyOf returns the payload (stamped with a generated key if it had none),
// its key and whether the key is a number. Numbers are keyed by their JSON
// text, so 1 and 1.0 are different keys.
func (c *Collection) keyOf(payload []byte) ([]byte, string, bool, error) {

	if !gjson.ParseBytes(payload).IsObject() {
		return nil, "", false, ErrInvalidDocument
	}

	field := c.options.KeyField
	value := gjson.GetBytes(payload, field)
	if !value.Exists() {
		key := uuid.New().String()
		stamped, err := sjson.SetBytes(payload, field, key)
		if err != nil {
			return nil, "", false, fmt.Errorf("set key field '%s': %w", field, err)
		}
		return stamped, key, false, nil
	}

	switch value.Type {
	case gjson.String:
		return payload, value.String(), false, nil
	case gjson.Number:
		return payload, value.Raw, true, nil
	}

	return nil, "", false, fmt.Errorf("%w: field '%s' must be a string or a number, got %s", ErrInvalidKey, field, value.Raw)
}

// numericKey tells if the key stored in row is a number.
func (c *Collection) numericKey(row *Row) bool {
	return gjson.GetBytes(row.Payload, c.options.KeyField).Type == gjson.Number
}

func keyKind(numeric bool) string {
	if numeric {
		return "number"
	}
	return "string"
}

func (c *Collection) insertPayload(payload []byte, exclusive bool) (*Row, error) {

	payload, key, numeric, err := c.keyOf(payload)
	if err != nil {
		return nil, err
	}

	row := &Row{
		Key:     key,
		Payload: payload,
	}

	_, old, exists := c.rows.GetByKey(key)
	if exists && c.numericKey(old) != numeric {
		return nil, fmt.Errorf("%w: key '%s' is stored as a %s", ErrKeyConflict, key, keyKind(!numeric))
	}

	if exclusive {
		index, ok := c.rows.TryInsert(key, row)
		if !ok {
			return nil, fmt.Errorf("%w: key '%s'", ErrKeyConflict, key)
		}
		row.I = index
	} else {
		if exists {
			c.unindexRow(old)
		}
		row.I = c.rows.Insert(key, row)
	}

	c.indexRow(row)

	return row, nil
}

// replaceRow overwrites row with newPayload keeping its key and slot.
func (c *Collection) replaceRow(row *Row, newPayload []byte) (*Row, error) {

	newPayload, key, numeric, err := c.keyOf(newPayload)
	if err != nil {
		return nil, err
	}
	if key != row.Key {
		return nil, fmt.Errorf("%w: '%s' to '%s'", ErrKeyChanged, row.Key, key)
	}
	if numeric != c.numericKey(row) {
		return nil, fmt.Errorf("%w: '%s' from %s to %s", ErrKeyChanged, key, keyKind(!numeric), keyKind(numeric))
	}

	newRow := &Row{
		Key:     key,
		Payload: newPayload,
	}

	c.unindexRow(row)
	newRow.I = c.rows.Insert(key, newRow)
	c.indexRow(newRow)

	return newRow, nil
}

func (c *Collection) indexRow(row *Row) {
	for _, index := range c.Indexes {
		index.AddRow(row)
	}
}

func (c *Collection) unindexRow(row *Row) {
	for _, index := range c.Indexes {
		index.RemoveRow(row)
	}
}

func (c *Collection) marshal(item any) ([]byte, error) {
	payload, err := jsonv2.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("json encode payload: %w", err)
	}
	return payload, nil
}

// Insert stores item. A document whose key already exists replaces the
// stored one and keeps its slot.
func (c *Collection) Insert(item any) (*Row, error) {
	return c.insert(item, false)
}

// TryInsert stores item only if its key does not exist yet, otherwise it
// fails with ErrKeyConflict and changes nothing.
func (c *Collection) TryInsert(item any) (*Row, error) {
	return c.insert(item, true)
}

func (c *Collection) insert(item any, exclusive bool) (*Row, error) {

	payload, err := c.marshal(item)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}

	row, err := c.insertPayload(payload, exclusive)
	if err != nil {
		return nil, err
	}

	err = c.persist(CommandInsert, jsontext.Value(row.Payload))
	if err != nil {
		return nil, err
	}

	return row, nil
}

// Patch applies a JSON merge patch to the document stored under key.
func (c *Collection) Patch(key string, patch any) (*Row, error) {

	patchBytes, err := c.marshal(patch)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}

	_, row, exists := c.rows.GetByKey(key)
	if !exists {
		return nil, fmt.Errorf("%w: key '%s'", ErrNotFound, key)
	}

	newPayload, err := jsonpatch.MergePatch(row.Payload, patchBytes)
	if err != nil {
		return nil, fmt.Errorf("cannot apply patch: %w", err)
	}

	diff, err := jsonpatch.CreateMergePatch(row.Payload, newPayload)
	if err != nil {
		return nil, fmt.Errorf("cannot diff: %w", err)
	}

	newRow, err := c.replaceRow(row, newPayload)
	if err != nil {
		return nil, err
	}

	err = c.persist(CommandPatch, &patchCommand{
		Key:  key,
		Diff: diff,
	})
	if err != nil {
		return nil, err
	}

	return newRow, nil
}

func (c *Collection) GetByKey(key string) (*Row, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, row, exists := c.rows.GetByKey(key)
	return row, exists
}

func (c *Collection) GetByIndex(i int) (*Row, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.rows.GetByIndex(i)
}

func (c *Collection) Contains(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.rows.Contains(key)
}

// Traverse visits rows in slot order until f returns false. f must not
// modify the collection.
func (c *Collection) Traverse(f func(row *Row) bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, row := range c.rows.All() {
		if !f(row) {
			return
		}
	}
}

// TraverseEntries visits rows through the key index, in slot order,
// until f returns false.
func (c *Collection) TraverseEntries(f func(row *Row) bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for entry := range c.rows.Entries() {
		if !f(entry.Value) {
			return
		}
	}
}

// Drain removes every row, handing each one to f in slot order.
func (c *Collection) Drain(f func(row *Row)) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return ErrClosed
	}

	c.drain(f)

	return c.persist(CommandDrain, map[string]any{})
}

func (c *Collection) drain(f func(row *Row)) {
	for _, row := range c.rows.Drain() {
		f(row)
	}
	for _, index := range c.Indexes {
		index.Reset()
	}
}

// Index creates a btree index called name over options.Field.
func (c *Collection) Index(name string, options *IndexBtreeOptions) error {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return ErrClosed
	}

	err := c.createIndex(name, options)
	if err != nil {
		return err
	}

	return c.persist(CommandIndex, &indexCommand{
		Name:    name,
		Options: options,
	})
}

func (c *Collection) createIndex(name string, options *IndexBtreeOptions) error {

	if _, exists := c.Indexes[name]; exists {
		return fmt.Errorf("%w: '%s'", ErrIndexExists, name)
	}
	if options == nil || options.Field == "" {
		return fmt.Errorf("index '%s': field is required", name)
	}

	index := NewIndexBtree(options)
	for _, row := range c.rows.All() {
		index.AddRow(row)
	}
	c.Indexes[name] = index

	return nil
}

func (c *Collection) DropIndex(name string) error {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return ErrClosed
	}

	err := c.dropIndex(name)
	if err != nil {
		return err
	}

	return c.persist(CommandDropIndex, &dropIndexCommand{
		Name: name,
	})
}

func (c *Collection) dropIndex(name string) error {
	if _, exists := c.Indexes[name]; !exists {
		return fmt.Errorf("%w: '%s'", ErrIndexNotFound, name)
	}
	delete(c.Indexes, name)
	return nil
}

func (c *Collection) TraverseIndex(name string, options *IndexBtreeTraverse, f func(row *Row) bool) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	index, exists := c.Indexes[name]
	if !exists {
		return fmt.Errorf("%w: '%s'", ErrIndexNotFound, name)
	}

	return index.Traverse(options, f)
}

func (c *Collection) ListIndexes() map[string]*IndexBtreeOptions {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := map[string]*IndexBtreeOptions{}
	for name, index := range c.Indexes {
		result[name] = index.Options
	}
	return result
}

func (c *Collection) Filename() string {
	return c.filename
}

func (c *Collection) Options() Options {
	return *c.options
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.rows.Len()
}

// Floor returns the number of slots ever allocated.
func (c *Collection) Floor() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.rows.Floor()
}

// Holes returns the number of free slots waiting to be reused.
func (c *Collection) Holes() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.rows.Floor() - c.rows.Len()
}

func (c *Collection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return ErrClosed
	}

	err := c.file.Close()
	c.file = nil
	return err
}

func (c *Collection) Drop() error {
	err := c.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	err = os.Remove(c.filename)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}

package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nilsmartel/hotel/collection"
	"github.com/nilsmartel/hotel/logger"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrCollectionExists   = errors.New("collection already exists")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidName        = errors.New("invalid collection name")
)

type Config struct {
	Dir      string
	KeyField string // default key field for new collections
	Capacity int    // default slot capacity for new collections
}

type Database struct {
	config      *Config
	status      string
	collections map[string]*collection.Collection
	mutex       *sync.RWMutex
	exit        chan struct{}
	exitOnce    sync.Once
}

func NewDatabase(config *Config) *Database {
	return &Database{
		config:      config,
		status:      StatusOpening,
		collections: map[string]*collection.Collection{},
		mutex:       &sync.RWMutex{},
		exit:        make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\:")
}

func (db *Database) options(options *collection.Options) *collection.Options {
	o := &collection.Options{
		KeyField: db.config.KeyField,
		Capacity: db.config.Capacity,
	}
	if options != nil {
		if options.KeyField != "" {
			o.KeyField = options.KeyField
		}
		if options.Capacity > 0 {
			o.Capacity = options.Capacity
		}
	}
	return o
}

// CreateCollection opens a new collection called name. Zero values in
// options are taken from Config.
func (db *Database) CreateCollection(name string, options *collection.Options) (*collection.Collection, error) {

	if !validName(name) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.collections[name]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrCollectionExists, name)
	}

	filename := path.Join(db.config.Dir, name)
	col, err := collection.OpenCollection(filename, db.options(options))
	if err != nil {
		return nil, err
	}

	db.collections[name] = col
	logger.WithPrefix("database").WithField("collection", name).Info("collection created")

	return col, nil
}

func (db *Database) GetCollection(name string) (*collection.Collection, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	col, exists := db.collections[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrCollectionNotFound, name)
	}

	return col, nil
}

// ListCollections returns every collection name, sorted.
func (db *Database) ListCollections() []string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	names := make([]string, 0, len(db.collections))
	for name := range db.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DropCollection closes the collection and removes its file.
func (db *Database) DropCollection(name string) error {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	col, exists := db.collections[name]
	if !exists {
		return fmt.Errorf("%w: '%s'", ErrCollectionNotFound, name)
	}

	err := col.Drop()
	if err != nil {
		return fmt.Errorf("drop '%s': %w", name, err)
	}

	delete(db.collections, name)
	logger.WithPrefix("database").WithField("collection", name).Info("collection dropped")

	return nil
}

// Load opens every file in Config.Dir as a collection.
func (db *Database) Load() error {

	log := logger.WithPrefix("database")

	dir := db.config.Dir
	log.Infof("Loading database %s...", dir)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = filepath.WalkDir(dir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name, err := filepath.Rel(dir, filename)
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)
		if !validName(name) {
			log.WithField("filename", filename).Warn("skip file, not a collection name")
			return nil
		}

		t0 := time.Now()
		col, err := collection.OpenCollection(filename, db.options(nil))
		if err != nil {
			log.WithError(err).Errorf("open collection '%s'", filename)
			return err
		}
		log.WithField("collection", name).
			WithField("rows", col.Len()).
			WithField("holes", col.Holes()).
			WithField("took", time.Since(t0).String()).
			Info("collection loaded")

		db.mutex.Lock()
		db.collections[name] = col
		db.mutex.Unlock()

		return nil
	})

	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	db.setStatus(StatusOperating)

	return nil
}

// Start loads the database and blocks until Stop is called.
func (db *Database) Start() error {

	go func() {
		err := db.Load()
		if err != nil {
			logger.WithPrefix("database").WithError(err).Error("load")
		}
	}()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer db.exitOnce.Do(func() { close(db.exit) })

	db.setStatus(StatusClosing)

	log := logger.WithPrefix("database")

	db.mutex.Lock()
	defer db.mutex.Unlock()

	var lastErr error
	for name, col := range db.collections {
		log.Infof("Closing '%s'...", name)
		err := col.Close()
		if err != nil && !errors.Is(err, collection.ErrClosed) {
			log.WithError(err).Errorf("close '%s'", name)
			lastErr = err
		}
	}

	return lastErr
}

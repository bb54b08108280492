package service

import (
	"errors"

	"github.com/nilsmartel/hotel/collection"
	"github.com/nilsmartel/hotel/database"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateCollection(name string, options *collection.Options) (*collection.Collection, error) {
	return s.db.CreateCollection(name, options)
}

func (s *Service) GetCollection(name string) (*collection.Collection, error) {
	return s.db.GetCollection(name)
}

// GetOrCreateCollection returns the collection called name, creating it
// with default options if it does not exist.
func (s *Service) GetOrCreateCollection(name string) (*collection.Collection, error) {

	col, err := s.db.GetCollection(name)
	if errors.Is(err, ErrorCollectionNotFound) {
		col, err = s.db.CreateCollection(name, nil)
		if errors.Is(err, ErrorCollectionAlreadyExists) {
			// Somebody else created it in the meantime
			return s.db.GetCollection(name)
		}
	}

	return col, err
}

func (s *Service) ListCollections() map[string]*collection.Collection {
	result := map[string]*collection.Collection{}

	for _, name := range s.db.ListCollections() {
		col, err := s.db.GetCollection(name)
		if err != nil {
			continue // dropped while listing
		}
		result[name] = col
	}

	return result
}

func (s *Service) DeleteCollection(name string) error {
	return s.db.DropCollection(name)
}

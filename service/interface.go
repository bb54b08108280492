package service

import (
	"github.com/nilsmartel/hotel/collection"
	"github.com/nilsmartel/hotel/database"
)

var (
	ErrorCollectionNotFound      = database.ErrCollectionNotFound
	ErrorCollectionAlreadyExists = database.ErrCollectionExists
)

type Servicer interface {
	CreateCollection(name string, options *collection.Options) (*collection.Collection, error)
	GetCollection(name string) (*collection.Collection, error)
	GetOrCreateCollection(name string) (*collection.Collection, error)
	ListCollections() map[string]*collection.Collection
	DeleteCollection(name string) error
}

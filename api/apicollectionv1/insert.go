package apicollectionv1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/nilsmartel/hotel/collection"
	"github.com/nilsmartel/hotel/logger"
)

// insert reads a stream of JSON documents. A document whose key already
// exists replaces the stored one in place.
//
// how to try with curl:
// curl -v -X POST -T. http://localhost:8080/v1/collections/prueba:insert
// type one document and press enter
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return insertRows(ctx, w, r, (*collection.Collection).Insert)
}

// tryInsert is like insert but fails on the first document whose key
// already exists.
func tryInsert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return insertRows(ctx, w, r, (*collection.Collection).TryInsert)
}

type insertFunc func(c *collection.Collection, item any) (*collection.Row, error)

func insertRows(ctx context.Context, w http.ResponseWriter, r *http.Request, insert insertFunc) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetOrCreateCollection(collectionName)
	if err != nil {
		return err
	}

	log := logger.WithPrefix("api").WithField("collection", collectionName)

	jsonReader := jsontext.NewDecoder(r.Body)
	jsonWriter := json.NewEncoder(w)

	for i := 0; true; i++ {
		value, err := jsonReader.ReadValue()
		if errors.Is(err, io.EOF) {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			log.WithError(err).Debugf("decode document %d", i)
			return fmt.Errorf("%w: document %d: %w", ErrBadRequest, i, err)
		}

		row, err := insert(col, value)
		if err != nil {
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(newRowResponse(row))
	}

	return nil
}

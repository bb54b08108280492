package apicollectionv1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/box"
	jsonv2 "github.com/go-json-experiment/json"

	"github.com/nilsmartel/hotel/collection"
	"github.com/nilsmartel/hotel/utils"
)

func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	input := struct {
		Mode string `json:"mode"`
	}{
		Mode: "fullscan",
	}
	if len(requestBody) > 0 {
		err = jsonv2.Unmarshal(requestBody, &input)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	} else {
		requestBody = []byte("{}")
	}

	f, exist := findModes[input.Mode]
	if !exist {
		return fmt.Errorf("%w: bad mode '%s', must be [%s]", ErrBadRequest, input.Mode, strings.Join(utils.GetKeys(findModes), "|"))
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	return f(requestBody, col, writeRow(w))
}

type traverseFunc func(input []byte, col *collection.Collection, f func(row *collection.Row)) error

var findModes = map[string]traverseFunc{
	"fullscan": traverseFullscan,
	"key":      traverseKey,
	"index":    traverseIndex,
	"btree":    traverseBtree,
}

func writeRow(w http.ResponseWriter) func(row *collection.Row) {
	e := json.NewEncoder(w)
	return func(row *collection.Row) {
		e.Encode(newRowResponse(row))
	}
}

package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func dropCollection(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")

	err := s.DeleteCollection(collectionName)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

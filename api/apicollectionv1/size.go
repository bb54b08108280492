package apicollectionv1

import (
	"context"
	"os"

	"github.com/fulldump/box"
)

type sizeResponse struct {
	Total int   `json:"total"`
	Slots int   `json:"slots"`
	Holes int   `json:"holes"`
	Disk  int64 `json:"disk"`
}

func size(ctx context.Context) (*sizeResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	result := &sizeResponse{
		Total: col.Len(),
		Slots: col.Floor(),
		Holes: col.Holes(),
	}

	info, err := os.Stat(col.Filename())
	if err == nil {
		result.Disk = info.Size()
	}

	return result, nil
}

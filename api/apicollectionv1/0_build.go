package apicollectionv1

import (
	"github.com/fulldump/box"

	"github.com/nilsmartel/hotel/service"
)

func BuildV1Collection(v1 *box.R, s service.Servicer) *box.R {

	collections := v1.Resource("/collections").
		WithActions(
			box.Get(listCollections),
			box.Post(createCollection),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.Get(getCollection),
			box.ActionPost(insert),
			box.ActionPost(tryInsert),
			box.ActionPost(find),
			box.ActionPost(patch),
			box.ActionPost(drain),
			box.ActionPost(dropCollection),
			box.ActionPost(listIndexes),
			box.ActionPost(createIndex),
			box.ActionPost(getIndex),
			box.ActionPost(dropIndex),
			box.ActionPost(size),
		)

	v1.Resource("/collections/{collectionName}/documents/{documentKey}").
		WithActions(
			box.Get(getDocument),
		)

	return collections
}

package apistorev1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/flatfiledb/service"
)

func BuildV1Store(v1 *box.R, s service.Servicer) *box.R {

	stores := v1.Resource("/stores").
		WithActions(
			box.Get(listStores),
			box.Post(createStore),
		)

	v1.Resource("/stores/{storeId}").
		WithActions(
			box.Get(getStore),
			box.ActionPost(insert),
			box.ActionPost(get),
			box.ActionPost(update),
			box.ActionPost(remove),
			box.ActionPost(find),
			box.ActionPost(dropStore),
		)

	return stores
}

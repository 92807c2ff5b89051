package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/flatfiledb/service"
)

// dropStore destroys the store: the catalog entry goes away together with
// the backing file on disk.
func dropStore(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)

	id, err := getStoreId(ctx)
	if err != nil {
		return err
	}

	err = s.DropStore(id)
	if err == service.ErrStoreNotFound {
		w.WriteHeader(http.StatusNotFound)
		return err
	}

	return err
}

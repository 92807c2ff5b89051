package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/flatfiledb/service"
)

type removeRequest struct {
	Key string `json:"key"`
}

// remove deletes every row matching the key. Rows keep their slot on disk
// and become reusable by later inserts.
func remove(ctx context.Context, w http.ResponseWriter, input *removeRequest) (*countResponse, error) {

	s := GetServicer(ctx)

	id, err := getStoreId(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.Delete(id, input.Key)
	if err == service.ErrStoreNotFound || err == service.ErrItemNotFound {
		w.WriteHeader(http.StatusNotFound)
		return nil, err
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, err
	}

	return &countResponse{Count: count}, nil
}

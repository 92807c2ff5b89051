package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/flatfiledb/service"
)

type updateRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type countResponse struct {
	Count int `json:"count"`
}

// update rewrites the value of every row matching the key. An absent key is
// an upsert: the record is inserted and the count is 1.
func update(ctx context.Context, w http.ResponseWriter, input *updateRequest) (*countResponse, error) {

	s := GetServicer(ctx)

	id, err := getStoreId(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.Update(id, input.Key, input.Value)
	if err == service.ErrStoreNotFound {
		w.WriteHeader(http.StatusNotFound)
		return nil, err
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, err
	}

	return &countResponse{Count: count}, nil
}

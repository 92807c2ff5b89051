package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/flatfiledb/service"
)

type getRequest struct {
	Key string `json:"key"`
}

type getResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// get returns the value of the first row matching the key in scan order.
func get(ctx context.Context, w http.ResponseWriter, input *getRequest) (*getResponse, error) {

	s := GetServicer(ctx)

	id, err := getStoreId(ctx)
	if err != nil {
		return nil, err
	}

	value, err := s.Get(id, input.Key)
	if err == service.ErrStoreNotFound || err == service.ErrItemNotFound {
		w.WriteHeader(http.StatusNotFound)
		return nil, err
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, err
	}

	return &getResponse{
		Key:   input.Key,
		Value: value,
	}, nil
}

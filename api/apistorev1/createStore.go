package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/flatfiledb/service"
)

func createStore(ctx context.Context, w http.ResponseWriter, input *service.CreateStoreRequest) (*service.StoreInfo, error) {

	s := GetServicer(ctx)

	info, err := s.CreateStore(input)
	if err == service.ErrStoreAlreadyExists {
		w.WriteHeader(http.StatusConflict)
		return nil, err
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return info, nil
}

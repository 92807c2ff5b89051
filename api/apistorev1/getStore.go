package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/flatfiledb/service"
)

func getStore(ctx context.Context) (*service.StoreInfo, error) {

	s := GetServicer(ctx)

	id, err := getStoreId(ctx)
	if err != nil {
		return nil, err
	}

	info, err := s.GetStore(id)
	if err == service.ErrStoreNotFound {
		box.GetResponse(ctx).WriteHeader(http.StatusNotFound)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return info, nil
}

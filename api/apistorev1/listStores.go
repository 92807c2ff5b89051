package apistorev1

import (
	"context"

	"github.com/fulldump/flatfiledb/service"
)

func listStores(ctx context.Context) ([]*service.StoreInfo, error) {

	s := GetServicer(ctx)

	return s.ListStores()
}

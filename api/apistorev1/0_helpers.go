package apistorev1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fulldump/box"
)

func getStoreId(ctx context.Context) (uint64, error) {

	raw := box.GetUrlParameter(ctx, "storeId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		box.GetResponse(ctx).WriteHeader(http.StatusBadRequest)
		return 0, fmt.Errorf("store id '%s' is not a non-negative integer", raw)
	}

	return id, nil
}

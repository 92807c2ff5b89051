package apistorev1

import (
	"context"

	"github.com/fulldump/flatfiledb/service"
)

const ContextServicerKey = "8e2f6a52-7c1b-11ee-b962-0242ac120002"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}

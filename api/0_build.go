package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/flatfiledb/api/apistorev1"
	"github.com/fulldump/flatfiledb/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
	)

	apistorev1.BuildV1Store(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "FlatFileDB"
	spec.Info.Description = "A dictionary of flat file stores: fixed-size rows located by linear scan."
	b.Resource("/openapi.json").
		WithActions(box.Get(func(r *http.Request) any {

			spec.Servers = []boxopenapi.Server{
				{
					Url: "http://" + r.Host,
				},
			}

			return spec
		}))

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apistorev1.SetServicer(ctx, s))
		}
	}
}

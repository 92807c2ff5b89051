package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fulldump/box"
	"github.com/google/uuid"

	"github.com/fulldump/flatfiledb/dictionary"
	"github.com/fulldump/flatfiledb/service"
)

func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Println(now.UTC().Format(time.RFC3339Nano), formatRemoteAddr(r), r.Method, r.URL.String(), time.Since(now))
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	return r.RemoteAddr[0:strings.LastIndex(r.RemoteAddr, ":")]
}

// RequestId tags every response so one request can be followed across the
// access log and the client.
func RequestId(next box.H) box.H {
	return func(ctx context.Context) {
		box.GetResponse(ctx).Header().Set("X-Request-Id", uuid.NewString())
		next(ctx)
	}
}

func InterceptorUnavailable(dict *dictionary.Dictionary) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := dict.GetStatus()
			if status == dictionary.StatusOpening {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: opening"))
				return
			}
			if status == dictionary.StatusClosing {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: closing"))
				return
			}
			next(ctx)
		}
	}
}

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		writeError := func(status int, description string) {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": PrettyError{
					Message:     err.Error(),
					Description: description,
				},
			})
		}

		if err == service.ErrStoreNotFound || err == service.ErrItemNotFound {
			writeError(http.StatusNotFound, "the requested store or record does not exist")
			return
		}

		if _, ok := err.(*json.SyntaxError); ok {
			writeError(http.StatusBadRequest, "Malformed JSON")
			return
		}

		writeError(http.StatusInternalServerError, "Unexpected error")
	}
}

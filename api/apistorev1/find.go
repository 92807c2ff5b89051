package apistorev1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/flatfiledb/service"
)

// find scans the occupied rows and streams the ones matching the filter,
// one JSON document per line. Documents look like {"index":0,"key":"k",
// "value":"v"} and the filter uses connor operators over those fields.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	params := &struct {
		Filter map[string]interface{}
		Skip   int64
		Limit  int64
	}{
		Filter: map[string]interface{}{},
		Skip:   0,
		Limit:  1,
	}
	err = json.Unmarshal(requestBody, &params)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return err
	}

	s := GetServicer(ctx)

	id, err := getStoreId(ctx)
	if err != nil {
		return err
	}

	hasFilter := len(params.Filter) > 0

	jsonWriter := json.NewEncoder(w)

	skip := params.Skip
	limit := params.Limit
	var matchErr error
	err = s.Records(id, func(record *service.Record) bool {

		if limit == 0 {
			return false
		}

		if hasFilter {
			recordData := map[string]interface{}{
				"index": record.Index,
				"key":   record.Key,
				"value": record.Value,
			}
			match, err := connor.Match(params.Filter, recordData)
			if err != nil {
				matchErr = fmt.Errorf("match: %w", err)
				return false
			}
			if !match {
				return true
			}
		}

		if skip > 0 {
			skip--
			return true
		}

		limit--
		jsonWriter.Encode(record)
		return true
	})
	if err == service.ErrStoreNotFound {
		w.WriteHeader(http.StatusNotFound)
		return err
	}
	if err != nil {
		return err
	}

	return matchErr
}

package apistorev1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/flatfiledb/service"
)

type insertItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type insertResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// insert reads a stream of records from the request body and appends each
// one as it arrives. Duplicate keys are allowed, every record lands in its
// own row.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)

	id, err := getStoreId(ctx)
	if err != nil {
		return err
	}

	jsonReader := jsontext.NewDecoder(r.Body)
	jsonWriter := json.NewEncoder(w)

	for i := 0; true; i++ {
		item := insertItem{}
		err := json2.UnmarshalDecode(jsonReader, &item)
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			if i == 0 {
				w.WriteHeader(http.StatusBadRequest)
			}
			return err
		}

		count, err := s.Insert(id, item.Key, item.Value)
		if err != nil {
			if i == 0 {
				if err == service.ErrStoreNotFound {
					w.WriteHeader(http.StatusNotFound)
				} else {
					w.WriteHeader(http.StatusBadRequest)
				}
			}
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(insertResult{
			Key:   item.Key,
			Value: item.Value,
			Count: count,
		})
	}

	return nil
}

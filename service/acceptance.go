package service

import (
	"net/http"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// Acceptance runs the HTTP contract of the store API against any handler,
// so the same suite can exercise an in-process box or a live server.
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create store", func(a *biff.A) {
		resp := apiRequest("POST", "/stores").
			WithBodyJson(JSON{
				"id":          1,
				"key_type":    "string",
				"key_size":    8,
				"value_size":  16,
				"buffer_rows": 4,
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		expectedBody := JSON{
			"id":          1,
			"key_type":    "string",
			"key_size":    8,
			"value_size":  16,
			"buffer_rows": 4,
			"rows":        0,
			"records":     0,
		}
		biff.AssertEqualJson(resp.BodyJson(), expectedBody)

		a.Alternative("Retrieve store", func(a *biff.A) {
			resp := apiRequest("GET", "/stores/1").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expectedBody)
		})

		a.Alternative("List stores", func(a *biff.A) {
			resp := apiRequest("GET", "/stores").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{expectedBody})
		})

		a.Alternative("Create duplicated store", func(a *biff.A) {
			resp := apiRequest("POST", "/stores").
				WithBodyJson(JSON{
					"id":         1,
					"key_type":   "string",
					"key_size":   8,
					"value_size": 16,
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Drop store", func(a *biff.A) {
			resp := apiRequest("POST", "/stores/1:dropStore").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get dropped store", func(a *biff.A) {
				resp := apiRequest("GET", "/stores/1").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Insert one record", func(a *biff.A) {
			resp := apiRequest("POST", "/stores/1:insert").
				WithBodyJson(JSON{
					"key":   "alpha",
					"value": "one",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"key":   "alpha",
				"value": "one",
				"count": 1,
			})

			a.Alternative("Get record", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:get").
					WithBodyJson(JSON{"key": "alpha"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"key":   "alpha",
					"value": "one",
				})
			})

			a.Alternative("Get absent key", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:get").
					WithBodyJson(JSON{"key": "nope"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Update record", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:update").
					WithBodyJson(JSON{
						"key":   "alpha",
						"value": "uno",
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"count": 1})

				resp = apiRequest("POST", "/stores/1:get").
					WithBodyJson(JSON{"key": "alpha"}).Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"key":   "alpha",
					"value": "uno",
				})
			})

			a.Alternative("Update absent key is an upsert", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:update").
					WithBodyJson(JSON{
						"key":   "beta",
						"value": "two",
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"count": 1})

				resp = apiRequest("POST", "/stores/1:get").
					WithBodyJson(JSON{"key": "beta"}).Do()
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
			})

			a.Alternative("Remove record", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:remove").
					WithBodyJson(JSON{"key": "alpha"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"count": 1})

				resp = apiRequest("POST", "/stores/1:get").
					WithBodyJson(JSON{"key": "alpha"}).Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Remove absent key", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:remove").
					WithBodyJson(JSON{"key": "nope"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Find with filter", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:find").
					WithBodyJson(JSON{
						"limit": 10,
						"filter": JSON{
							"key": "alpha",
						},
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"index": 0,
					"key":   "alpha",
					"value": "one",
				})
			})
		})

		a.Alternative("Insert many records", func(a *biff.A) {
			resp := apiRequest("POST", "/stores/1:insert").
				WithBodyString(`
					{"key": "alpha", "value": "one"}
					{"key": "beta", "value": "two"}
					{"key": "alpha", "value": "three"}
				`).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			a.Alternative("Duplicate keys count every match", func(a *biff.A) {
				resp := apiRequest("POST", "/stores/1:update").
					WithBodyJson(JSON{
						"key":   "alpha",
						"value": "many",
					}).Do()

				biff.AssertEqualJson(resp.BodyJson(), JSON{"count": 2})
			})

			a.Alternative("Store counts rows and records", func(a *biff.A) {
				resp := apiRequest("GET", "/stores/1").Do()

				body := resp.BodyJson().(map[string]interface{})
				biff.AssertEqualJson(body["rows"], 3)
				biff.AssertEqualJson(body["records"], 3)
			})
		})

		a.Alternative("Insert empty body", func(a *biff.A) {
			resp := apiRequest("POST", "/stores/1:insert").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
		})

		a.Alternative("Insert oversized key", func(a *biff.A) {
			resp := apiRequest("POST", "/stores/1:insert").
				WithBodyJson(JSON{
					"key":   "way-too-long-for-eight-bytes",
					"value": "x",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})
	})

	a.Alternative("Create store with bad key type", func(a *biff.A) {
		resp := apiRequest("POST", "/stores").
			WithBodyJson(JSON{
				"id":         2,
				"key_type":   "complex128",
				"key_size":   8,
				"value_size": 8,
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Get missing store", func(a *biff.A) {
		resp := apiRequest("GET", "/stores/999").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Insert into missing store", func(a *biff.A) {
		resp := apiRequest("POST", "/stores/999:insert").
			WithBodyJson(JSON{"key": "a", "value": "b"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Bad store id", func(a *biff.A) {
		resp := apiRequest("GET", "/stores/banana").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})
}

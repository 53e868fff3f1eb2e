package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/smartystreets/goconvey/convey"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		convey.Convey("When registering the swagger handler", func() {
			Register(ctx, mux)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.Len(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "Offseason API Docs")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, redocScript)
			})

			convey.Convey("And other methods are refused", func() {
				req := httptest.NewRequest("POST", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		doc, err := kyaml.Parser().Unmarshal(OpenAPI)
		convey.So(err, convey.ShouldBeNil)
		paths, ok := doc["paths"].(map[string]any)
		convey.So(ok, convey.ShouldBeTrue)

		convey.Convey("Then it documents every route", func() {
			convey.So(doc["openapi"], convey.ShouldStartWith, "3.")
			for path, method := range map[string]string{
				"/offers/evaluate":             "post",
				"/offers/{surface}":            "post",
				"/market/demand":               "get",
				"/cap/schedule":                "get",
				"/cap/rookie":                  "get",
				"/drafts":                      "post",
				"/drafts/{id}":                 "get",
				"/drafts/{id}/pick":            "post",
				"/drafts/{id}/advance":         "post",
				"/drafts/{id}/advance-to-user": "post",
				"/drafts/{id}/pause":           "post",
				"/drafts/{id}/resume":          "post",
				"/drafts/{id}/trades/quote":    "post",
				"/drafts/{id}/trades":          "post",
				"/rosters/{team}":              "get",
				"/healthz":                     "get",
				"/stats":                       "get",
			} {
				convey.So(paths, convey.ShouldContainKey, path)
				convey.So(paths[path], convey.ShouldContainKey, method)
			}
		})
	})
}

func TestSwaggerHandlerWithNilMux(t *testing.T) {
	convey.Convey("Given a nil mux", t, func() {
		ctx := context.Background()

		convey.Convey("When registering the swagger handler", func() {
			convey.Convey("Then it should panic", func() {
				convey.So(func() {
					Register(ctx, nil)
				}, convey.ShouldPanic)
			})
		})
	})
}

package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a router with the site registered", t, func() {
		r := chi.NewRouter()
		Register(context.Background(), r)

		Convey("Then / serves the page", func() {
			req := httptest.NewRequest("GET", "/?testdate=2025-03-01", http.NoBody)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, `/static/app.js`)
		})

		Convey("And assets are served under /static/", func() {
			req := httptest.NewRequest("GET", "/static/app.js", http.NoBody)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/daily-word")
		})

		Convey("And unknown assets are 404", func() {
			req := httptest.NewRequest("GET", "/static/missing.js", http.NoBody)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a nil router", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}

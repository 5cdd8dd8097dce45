package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finitefield.org/storefront-web/internal/i18n"
)

func TestHTMXMarksContext(t *testing.T) {
	var seen bool
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IsHTMX(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, seen)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, seen)
}

func TestFragmentOnlyRedirectsPlainRequests(t *testing.T) {
	h := HTMX(FragmentOnly(func(r *http.Request) string { return "/full" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		PushURL(w, "/pushed")
		_, _ = w.Write([]byte("fragment"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frag", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/full", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/frag", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fragment", rec.Body.String())
	assert.Equal(t, "/pushed", rec.Header().Get("HX-Push-Url"))
}

func TestLocaleResolution(t *testing.T) {
	bundle, err := i18n.Load(i18n.Embedded(), "en", []string{"en", "ja"})
	require.NoError(t, err)

	var got string
	h := VaryLocale(Locale(bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r)
	})))

	cases := []struct {
		name   string
		target string
		cookie string
		accept string
		want   string
		sets   bool
	}{
		{name: "accept language", target: "/", accept: "ja-JP,ja;q=0.9", want: "ja"},
		{name: "query override", target: "/?hl=ja", accept: "en", want: "ja", sets: true},
		{name: "unsupported query ignored", target: "/?hl=fr", accept: "en", want: "en"},
		{name: "cookie", target: "/", cookie: "ja", accept: "en", want: "ja"},
		{name: "default", target: "/", want: "en"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "hl", Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, rec.Header().Get("Content-Language"))
			assert.Contains(t, rec.Header().Values("Vary"), "Accept-Language")
			assert.Equal(t, tc.sets, len(rec.Result().Cookies()) == 1)
		})
	}
}

func TestLangOutsideMiddleware(t *testing.T) {
	assert.Equal(t, "en", Lang(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestAssetsWithCache(t *testing.T) {
	fsys := fstest.MapFS{
		"css/site.css": {Data: []byte("body{margin:0}")},
	}
	h := AssetsWithCache(fsys, "/assets")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{margin:0}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package httputils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/nvellon/hal"
	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/errors"
)

type testResource struct {
	name string
}

func (r testResource) GetMap() hal.Entry {
	return hal.Entry{"name": r.name}
}

func (r testResource) Resource() *hal.Resource {
	return hal.NewResource(r, "/tests/"+r.name)
}

func TestStatusCode(t *testing.T) {
	require.Equal(t, http.StatusNotFound, StatusCode(errors.NotFound))
	require.Equal(t, http.StatusNotFound, StatusCode(errors.BlockNotFound.Clone().SetData("height", 3)))
	require.Equal(t, http.StatusBadRequest, StatusCode(errors.SelfVote))
	require.Equal(t, http.StatusServiceUnavailable, StatusCode(errors.TransactionPoolFull))
	require.Equal(t, http.StatusInternalServerError, StatusCode(json.Unmarshal([]byte("{"), &struct{}{})))
}

func TestWriteJSON(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/resource", func(w http.ResponseWriter, r *http.Request) {
		MustWriteJSON(w, http.StatusOK, testResource{name: "showme"})
	})
	router.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		MustWriteJSON(w, http.StatusOK, map[string]int{"a": 1})
	})
	router.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, errors.Expired.Clone().SetData("vote", 3))
	})

	{ // hal
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/resource", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/hal+json", rec.Header().Get("Content-Type"))

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		require.Equal(t, "showme", m["name"])
		links := m["_links"].(map[string]interface{})
		require.Equal(t, "/tests/showme", links["self"].(map[string]interface{})["href"])
	}

	{ // plain
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/plain", nil))
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.JSONEq(t, `{"a":1}`, rec.Body.String())
	}

	{ // problem
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/error", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var p Problem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		require.Equal(t, errors.Expired.Code, p.Code)
		require.Equal(t, errors.Expired.Message, p.Title)
		require.Equal(t, http.StatusBadRequest, p.Status)
		require.Equal(t, float64(3), p.Data.(map[string]interface{})["vote"])
	}
}

func TestNewErrorProblemHidesUnknownErrors(t *testing.T) {
	p := NewErrorProblem(json.Unmarshal([]byte("{"), &struct{}{}), http.StatusInternalServerError)
	require.Equal(t, errors.HTTPServerError.Code, p.Code)
	require.Equal(t, errors.HTTPServerError.Message, p.Title)
}

func TestPageQuery(t *testing.T) {
	{
		p, err := NewPageQuery(httptest.NewRequest("GET", "/votes", nil))
		require.NoError(t, err)
		require.Equal(t, DefaultLimit, p.Limit())
		require.False(t, p.Reverse())
		n, err := p.CursorUint64()
		require.NoError(t, err)
		require.Equal(t, uint64(0), n)
	}

	{
		p, err := NewPageQuery(httptest.NewRequest("GET", "/votes?cursor=7&limit=1000&reverse=true", nil))
		require.NoError(t, err)
		require.Equal(t, MaxLimit, p.Limit())
		require.True(t, p.Reverse())
		n, err := p.CursorUint64()
		require.NoError(t, err)
		require.Equal(t, uint64(7), n)
		require.Equal(t, "/votes?cursor=9&limit=100&reverse=true", p.NextLink("9"))
		require.Equal(t, "/votes?cursor=8&limit=100&reverse=false", p.PrevLink("8"))
	}

	for _, q := range []string{"limit=a", "limit=0", "reverse=maybe"} {
		_, err := NewPageQuery(httptest.NewRequest("GET", "/votes?"+q, nil))
		require.True(t, errors.Is(err, errors.BadRequestParameter), q)
	}

	{
		p, err := NewPageQuery(httptest.NewRequest("GET", "/votes?cursor=x", nil))
		require.NoError(t, err)
		_, err = p.CursorUint64()
		require.True(t, errors.Is(err, errors.BadRequestParameter))
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Len(t, rec.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "given", rec.Header().Get(HeaderRequestID))
}

func TestRateLimitMiddleware(t *testing.T) {
	_, err := ParseRateLimit("many")
	require.True(t, errors.Is(err, errors.BadRequestParameter))

	rate, err := ParseRateLimit("2-M")
	require.NoError(t, err)

	h := RateLimitMiddleware(rate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// another client has its own counter
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

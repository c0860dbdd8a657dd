package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeOfAndDiff(t *testing.T) {
	legacy, err := shapeOf([]byte(`{"Total":3,"Companies":1,"ThisMonth":0}`))
	require.NoError(t, err)
	current, err := shapeOf([]byte(`{"total":3,"Companies":"1","ThisMonth":0}`))
	require.NoError(t, err)

	missing, extra := diffShapes(legacy, current)
	assert.Equal(t, []string{"Companies", "Total"}, missing)
	assert.Equal(t, []string{"total"}, extra)
}

func TestCompareTargetSendsToken(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":1,"pending":0,"today":0,"thisMonth":1}`))
	}))
	defer legacy.Close()
	current := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"total":2,"pending":1,"today":0,"thisMonth":1}`))
	}))
	defer current.Close()

	target := target{Legacy: "/cleaning/api/stats", Path: "/api/cleaning-requests/stats", Critical: true}
	res := compareTarget(current.Client(), legacy.URL, current.URL, "tok", target)
	require.NoError(t, res.Error)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Extra)

	res = compareTarget(current.Client(), legacy.URL, current.URL, "", target)
	require.Error(t, res.Error)

	var out bytes.Buffer
	printReport(&out, []comparison{res})
	assert.Contains(t, out.String(), "[ERROR]")
}

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffKeys(t *testing.T) {
	d := diffKeys(
		topLevelKeys([]byte(`{"classes":[],"date":"2024-09-02","day":"Monday"}`)),
		topLevelKeys([]byte(`{"classes":[],"date":"2024-09-02","weekday":"monday"}`)),
	)

	assert.Equal(t, []string{"day"}, d.OnlyLegacy)
	assert.Equal(t, []string{"weekday"}, d.OnlyGo)
	assert.False(t, d.empty())
	assert.True(t, diffKeys(topLevelKeys([]byte(`[1,2]`)), topLevelKeys([]byte(`"x"`))).empty())
}

func TestCompareTarget(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"courses":[{"id":"c1"}]}`))
	}))
	defer legacy.Close()
	goAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"courses":[]}`))
	}))
	defer goAPI.Close()

	comp := compareTarget(&http.Client{Timeout: time.Second}, goAPI.URL, legacy.URL, "tok", target{Path: "api/courses"})

	require.NoError(t, comp.Err)
	assert.Equal(t, http.StatusOK, comp.GoStatus)
	assert.True(t, comp.matches())
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDirectory = `[
	{
		"name": {"common": "United States"},
		"idd": {"root": "+1", "suffixes": ["201", "202"]},
		"flags": {"png": "https://flagcdn.com/w320/us.png"}
	},
	{
		"name": {"common": "India"},
		"idd": {"root": "+9", "suffixes": ["1"]},
		"flags": {"png": "https://flagcdn.com/w320/in.png"}
	},
	{
		"name": {"common": "Antarctica"},
		"idd": {"root": "", "suffixes": []},
		"flags": {"png": "https://flagcdn.com/w320/aq.png"}
	}
]`

func TestFetchAllFlattensSuffixes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDirectory))
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	codes, err := client.FetchAll(context.Background())
	require.NoError(t, err)

	// Two US suffixes expand to two entries. Antarctica has no dial code
	// and is dropped. Sorted by name.
	require.Len(t, codes, 3)
	assert.Equal(t, "India", codes[0].Name)
	assert.Equal(t, "+91", codes[0].CallingCode)
	assert.Equal(t, "United States", codes[1].Name)
	assert.Equal(t, "+1201", codes[1].CallingCode)
	assert.Equal(t, "+1202", codes[2].CallingCode)
	assert.Equal(t, "https://flagcdn.com/w320/us.png", codes[1].Flag)
}

func TestFetchAllRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(sampleDirectory))
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	codes, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, codes, 3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchAllDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchAllRejectsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetchAllRespectsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClientWithURL(srv.URL)
	_, err := client.FetchAll(ctx)
	require.ErrorIs(t, err, ErrFetchFailed)
}

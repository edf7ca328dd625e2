// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory provides the remote country calling-code lookup.
//
// The login form's country picker is fed from the restcountries.com public
// directory. The client is a stateless decorator over one GET endpoint:
// it flattens the directory's nested dial-code records into flat
// {name, calling code, flag} entries and nothing else. A failed fetch is
// surfaced to the caller, who raises an error notification and leaves the
// picker empty but usable.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Configuration constants for the country directory API.
const (
	// DefaultBaseURL is the restcountries endpoint serving names, dial
	// codes, and flags.
	DefaultBaseURL = "https://restcountries.com/v3.1/all?fields=name,idd,flags"

	// DefaultTimeout bounds one fetch attempt.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the number of retry attempts for transient
	// failures.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize caps the response body. The full directory is well
	// under a megabyte; anything larger is not the directory.
	MaxResponseSize = 8 * 1024 * 1024
)

// ErrFetchFailed wraps any terminal fetch failure.
var ErrFetchFailed = errors.New("country directory fetch failed")

// =============================================================================
// TYPES
// =============================================================================

// CountryCode is one selectable calling-code entry.
type CountryCode struct {
	Name        string `json:"name"`
	CallingCode string `json:"callingCode"`
	Flag        string `json:"flag"`
}

// restCountry mirrors the subset of the restcountries record we consume.
// A country's calling codes are split into an idd root shared by all of its
// codes plus per-code suffixes.
type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	IDD struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	Flags struct {
		PNG string `json:"png"`
	} `json:"flags"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client fetches the country directory.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a directory client with default settings.
func NewClient() *Client {
	return NewClientWithURL(DefaultBaseURL)
}

// NewClientWithURL creates a client against a specific endpoint. Tests
// point this at an httptest server.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
	}
}

// FetchAll retrieves every country calling code, sorted by country name.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; a terminal failure returns an error wrapping ErrFetchFailed.
func (c *Client) FetchAll(ctx context.Context) ([]CountryCode, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrFetchFailed, ctx.Err())
			case <-time.After(delay):
			}
		}

		codes, retryable, err := c.fetchOnce(ctx)
		if err == nil {
			return codes, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)
}

// fetchOnce performs a single fetch attempt. The middle return reports
// whether the failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context) ([]CountryCode, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, true, err
	}

	var countries []restCountry
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, false, fmt.Errorf("failed to parse directory response: %w", err)
	}

	return flatten(countries), false, nil
}

// flatten expands idd root+suffix pairs into one entry per calling code,
// mirroring the browser client's mapping. Countries without any dial code
// data are dropped.
func flatten(countries []restCountry) []CountryCode {
	codes := make([]CountryCode, 0, len(countries))
	for _, country := range countries {
		suffixes := country.IDD.Suffixes
		if len(suffixes) == 0 {
			if country.IDD.Root == "" {
				continue
			}
			suffixes = []string{""}
		}
		for _, suffix := range suffixes {
			codes = append(codes, CountryCode{
				Name:        country.Name.Common,
				CallingCode: country.IDD.Root + suffix,
				Flag:        country.Flags.PNG,
			})
		}
	}

	sort.SliceStable(codes, func(i, j int) bool {
		return codes[i].Name < codes[j].Name
	})
	return codes
}

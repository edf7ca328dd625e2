// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"

	"github.com/Ayush-G09/gemini-tui/internal/model"
	"github.com/Ayush-G09/gemini-tui/internal/storage"
)

// DefaultDebounce is how long input must quiesce before a filter runs.
const DefaultDebounce = 300 * time.Millisecond

// =============================================================================
// DEBOUNCE STATE
// =============================================================================

// debounceState is the explicit two-state machine behind the single-slot
// timer: idle, or pending with the latest query. A new keystroke while
// pending re-arms the timer; only the final query's filter ever executes.
type debounceState int

const (
	stateIdle debounceState = iota
	statePending
)

// =============================================================================
// RESULT
// =============================================================================

// Result is one matching conversation, with a preview of the first message
// the filter matched on.
type Result struct {
	ID        string
	Preview   string
	CreatedAt time.Time
}

// =============================================================================
// VIEW
// =============================================================================

// View filters the conversation list by first-message content. Results are
// read-only derived data for display.
type View struct {
	mu    sync.Mutex
	store *storage.ChatStore
	delay time.Duration

	state        debounceState
	pendingQuery string
	timer        *time.Timer

	// onResults receives the outcome of each executed filter, on the
	// debounce timer's goroutine.
	onResults func(query string, results []Result)

	// fuzzyRank reorders matches by fuzzy score instead of recency.
	fuzzyRank bool

	closed bool
}

// NewView creates a search view over the store.
func NewView(store *storage.ChatStore, delay time.Duration) *View {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &View{store: store, delay: delay}
}

// SetOnResults registers the results callback.
func (v *View) SetOnResults(fn func(query string, results []Result)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onResults = fn
}

// SetFuzzyRank toggles fuzzy-score ordering of results.
func (v *View) SetFuzzyRank(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fuzzyRank = enabled
}

// OnQueryChange records a keystroke. The filter runs once input has been
// quiet for the debounce window; superseded keystrokes never produce a
// filter evaluation.
func (v *View) OnQueryChange(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}

	v.pendingQuery = text
	if v.state == statePending && v.timer != nil {
		v.timer.Stop()
	}
	v.state = statePending
	v.timer = time.AfterFunc(v.delay, v.runPending)
}

// runPending executes the latest pending filter, if still current.
func (v *View) runPending() {
	v.mu.Lock()
	if v.closed || v.state != statePending {
		v.mu.Unlock()
		return
	}
	query := v.pendingQuery
	v.state = stateIdle
	v.timer = nil
	onResults := v.onResults
	fuzzyRank := v.fuzzyRank
	v.mu.Unlock()

	results := filter(v.store.ReadAllByCreation(), query, fuzzyRank)
	if onResults != nil {
		onResults(query, results)
	}
}

// Filter runs the predicate immediately, bypassing the debounce. Used by
// the one-shot CLI search and anywhere an initial result set is needed
// before any keystroke.
func (v *View) Filter(query string) []Result {
	v.mu.Lock()
	fuzzyRank := v.fuzzyRank
	v.mu.Unlock()
	return filter(v.store.ReadAllByCreation(), query, fuzzyRank)
}

// Close cancels any pending filter.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.state = stateIdle
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// =============================================================================
// PREDICATE
// =============================================================================

// foldCaser performs Unicode case folding for the case-insensitive match.
var foldCaser = cases.Fold()

// filter returns the conversations whose first message body contains the
// query, case-insensitively. The empty query matches everything. Image
// bodies are matched on their raw payload string like any other body; the
// predicate stays opaque to content.
func filter(conversations []*model.Conversation, query string, fuzzyRank bool) []Result {
	folded := foldCaser.String(query)

	results := make([]Result, 0, len(conversations))
	for _, conv := range conversations {
		first, ok := conv.FirstMessage()
		if !ok {
			// A chat with no turns has nothing to match; the empty query
			// still lists it.
			if query == "" {
				results = append(results, toResult(conv))
			}
			continue
		}
		if query == "" || strings.Contains(foldCaser.String(first.Body), folded) {
			results = append(results, toResult(conv))
		}
	}

	if fuzzyRank && query != "" {
		results = rankByPreview(query, results)
	}
	return results
}

func toResult(conv *model.Conversation) Result {
	return Result{
		ID:        conv.ID,
		Preview:   conv.Preview(60),
		CreatedAt: conv.CreatedAt,
	}
}

// rankByPreview reorders results by fuzzy match score over their previews.
// Results the ranker finds no match for keep their recency order at the
// tail; the substring predicate has already admitted them.
func rankByPreview(query string, results []Result) []Result {
	previews := make([]string, len(results))
	for i, r := range results {
		previews[i] = r.Preview
	}

	matches := fuzzy.Find(query, previews)
	ranked := make([]Result, 0, len(results))
	seen := make(map[int]bool, len(matches))
	for _, m := range matches {
		ranked = append(ranked, results[m.Index])
		seen[m.Index] = true
	}
	for i, r := range results {
		if !seen[i] {
			ranked = append(ranked, r)
		}
	}
	return ranked
}

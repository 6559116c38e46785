// Package twitter fetches hashtag search result pages.
//
// SearchURL builds the page address from a configurable template and
// FetchPage downloads it with a single GET. Failures come back as typed
// errors from tagtally/pkg/errors so the caller can decide whether to skip
// the poll or abort the run.
package twitter

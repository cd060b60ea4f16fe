// Package git opens the repositories that hold documentation content.
//
// Local repositories are opened in place. Remote repositories are cloned
// bare into a cache directory on first use and fetched on later runs, with
// retries for transient failures. Branch selection uses glob patterns and
// file contents are read straight from commit trees, so no checkout is
// needed.
package git

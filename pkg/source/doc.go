// Package source materializes repositories on local disk for analysis.
//
// A [Fetcher] turns a repository URL into a directory. [GitFetcher] shallow
// clones remote URLs with the git command line and uses existing local
// directories in place. A [Workspace] owns the scratch directory of one run:
// every repository gets its own subdirectory, and [Workspace.Release]
// removes the whole tree with retries.
package source

// Package scanner discovers candidate source files under a project root.
//
// Discovery is deterministic: files are walked in lexical order, matched
// against an include-extension set and exclusion globs, checked against
// the root .gitignore, and size-capped. Per-file stat and read errors are
// skipped and counted rather than aborting the scan; only a failure on
// the root directory itself is fatal.
package scanner

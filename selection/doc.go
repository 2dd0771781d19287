// Package selection models an ordered selection of files under a root directory.
//
// # Overview
//
// A Record binds a root directory to a list of paths inside it. Tools use it
// to mark a subset of a directory tree for later processing, for example
// "anonymize these 40 of the 10,000 files in this archive folder". The
// sidecar package persists records next to the files they describe.
//
// # Path Handling
//
// All stored paths are relative to the root and use forward slashes, so a
// record written on one platform means the same files on another. Incoming
// paths are accepted absolute or root-relative and are validated before
// anything is stored:
//
//  1. The path must exist on disk.
//  2. Symlinks are resolved, and the resolved location must lie inside the
//     root's directory tree. The root itself does not count as inside.
//  3. The path is rewritten relative to the root with forward slashes.
//
// Validation runs for a whole batch before the record changes, so a failed
// Add never leaves a partially updated selection. Duplicates are dropped
// while keeping first-occurrence order.
//
// # Errors
//
// Failures carry a *PathError naming the offending path and wrapping one of
// the package sentinels:
//
//   - ErrInvalidRoot: the root does not exist or is not a directory
//   - ErrPathNotExists: a selected path cannot be found on disk
//   - ErrOutsideRoot: a path resolves outside the root (or to the root itself)
//
// Match them with errors.Is.
//
// # Concurrency
//
// A Record is a plain in-memory value with no internal locking. Callers that
// share one across goroutines must serialize access themselves.
package selection

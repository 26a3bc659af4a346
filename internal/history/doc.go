// Package history records one row per download attempt in SQLite.
//
// The ledger is an audit trail, not a content cache: it never short-circuits a
// download and nothing reads stories back out of it. Each row captures the
// reference the user supplied, the story it resolved to, where the document
// was written, and the classified failure when the attempt did not succeed.
//
// Schema changes bump schemaVersion in schema.go; users delete the database to
// adopt the new schema.
package history

// Package pgstore provides a PostgreSQL-backed credential store implementing
// the unified user repository port, plus embedded goose migrations.
//
// Deletion is soft: rows keep their data under a deleted_at stamp, a partial
// unique index scopes identifier uniqueness to live rows, and every read and
// mutation ignores deleted rows.
package pgstore

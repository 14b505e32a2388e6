// Package history keeps a SQLite ledger of pipeline runs.
//
// Every run, successful or not, is appended as one row keyed by run id.
// "dailies history" reads the most recent rows back. The database lives at
// paths.history_db and uses the same WAL and busy-retry settings throughout.
package history

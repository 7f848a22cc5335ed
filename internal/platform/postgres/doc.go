// Package postgres provides the PostgreSQL implementation of the task store
// interface defined in the internal/store package, backed by the hosted
// backend's database. It handles query execution, mapping between task rows
// and domain entities, translation of driver errors into store errors, and the
// embedded schema migrations describing the table the engine expects.
package postgres

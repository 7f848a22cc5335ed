// Package store defines interfaces for data persistence operations.
// These interfaces abstract the hosted task database from the reminder
// engine, allowing the scheduling logic to remain independent of specific
// database technologies or persistence details.
package store

// Package mocks provides hand-written test doubles for the engine's ports:
// the task store, the contact resolver and the notifier.
//
// Each mock accepts an optional Fn field overriding its behavior, falls back
// to configurable default return values, and records every call so tests can
// assert on what the engine asked for. All mocks are safe for concurrent use.
package mocks

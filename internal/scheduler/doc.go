// Package scheduler runs the two periodic loops of the reminder engine.
//
// The Dispatcher wakes every dispatch interval, checks whether the morning or
// evening slot is due, and sends each task owner a digest of their open
// tasks. The Resetter wakes every reset interval, reopens completed recurring
// tasks and moves their due dates forward. Engine starts and stops both loops
// together.
//
// Neither loop ever exits because of a failed tick. Store, identity and
// notification failures are logged, counted in the tick's report and the
// loop carries on; panics are recovered at the tick boundary.
package scheduler

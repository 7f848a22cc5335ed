// Package domain contains the core business entities of the reminder engine:
// tasks, their recurrence rules and the contact information a reminder is
// delivered to. It is independent of any storage or transport mechanism.
package domain

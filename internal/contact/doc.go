// Package contact resolves task owners to the contact details reminders are
// delivered to. It defines the Resolver port implemented by the identity
// service adapter and a TTL-bounded Cache that shields that service from
// repeated lookups of the same owner.
package contact

// Package mailer implements notify.Notifier by posting digests to the hosted
// mail function, plus a dry-run notifier that only logs what would be sent.
package mailer

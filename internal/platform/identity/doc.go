// Package identity implements contact.Resolver against the hosted identity
// service's admin API. Requests authenticate with the service key, or with a
// short-lived HS256 service token when a signing secret is configured.
package identity

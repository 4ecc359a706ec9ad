// Package identity generates identifiers for fdbkit objects.
//
// Two kinds of identifiers are handed out. Forwarding bindings are keyed by
// RFC 4122 UUIDs so they stay compatible with the 36 character identifiers
// used by existing network controllers. Short-lived runtime objects, such as
// dispatcher sessions and request ids, use the base36 random identifiers from
// NewID, which carry 128 bits of entropy in 25 characters.
//
// Identifiers should be treated opaquely.
package identity

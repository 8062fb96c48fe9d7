// Package acl is the anti-corruption layer between remote quote sources
// and the domain.
//
// A remote source speaks its own shape ({title, body, userId, id}); the
// adapters here split it with [codec.DecodeRemote], parse each element
// with [codec.ParseRemoteItem] and hand the reconciler plain
// [domain.Quote] values in a [ports.RemoteBatch].
//
// Failure mapping:
//   - transport errors, non-2xx responses, an open circuit → [domain.TransportError]
//   - a payload that is not a JSON array → [domain.DecodeError]
//   - an element of the wrong shape or with a blank title → skipped and
//     counted, never fatal
package acl

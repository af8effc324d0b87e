// Package google handles OAuth2 authentication against Google for the
// Calendar scope: the authorization-code exchange, a file-backed token store
// with fixed keys, and a Session that hands out currently valid access
// tokens, refreshing lazily when the cached token is about to expire.
package google

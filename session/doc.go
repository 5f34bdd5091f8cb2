// Package session persists login sessions in Redis. The store is the
// authority of last resort for the whole token flow: a signed token is only
// honored while its session still resolves here, so deleting a session
// revokes every token minted against it.
//
// Sessions are stored as JSON under <prefix>:session:<id> with a companion
// index key <prefix>:token:<token> mapping the opaque cookie credential back
// to the session id. Both keys expire together with the session.
package session

// Package carveauth implements the cross-service authentication flow used by
// the carve starter stack: an auth server mints short-lived HMAC-signed tokens
// against live sessions, and downstream API servers resolve those tokens back
// into request identities.
//
// The flow has four moving parts:
//
//   - token: a signed codec over {userId, sessionId, iat, exp} claims.
//   - session: the Redis-backed session store, the authority of last resort
//     for revocation.
//   - Engine: issuance and validation semantics binding the two together.
//   - middleware: the per-request context resolver run by API servers.
//
// A token is only as alive as its session: explicit logout revokes the session
// and every token minted against it, regardless of the token's own expiry.
package carveauth

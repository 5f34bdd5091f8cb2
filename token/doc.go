// Package token implements the signed bearer-token codec shared by the auth
// server and every API server that resolves identities locally.
//
// Tokens are standard three-segment JWTs signed with HMAC-SHA256 over a
// shared secret. The claim names on the wire (userId, sessionId) are fixed;
// changing them breaks every deployed consumer.
package token

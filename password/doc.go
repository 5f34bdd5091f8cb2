// Package password hashes login credentials with argon2id and verifies them
// in constant time. Hashes are stored in PHC string format so parameters can
// be raised later without invalidating existing accounts.
package password

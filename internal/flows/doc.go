// Package flows holds the issuance and validation decision logic behind the
// root Engine. Each flow takes an explicit Deps struct so the root package
// can wire its own stores and codecs without import cycles, and so tests can
// drive every branch with plain functions.
package flows

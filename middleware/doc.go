// Package middleware runs the per-request authentication context resolver
// on API servers. Every inbound request gets exactly one resolution attempt,
// and every failure mode degrades to an anonymous context: authentication
// can fail, the request pipeline cannot.
package middleware

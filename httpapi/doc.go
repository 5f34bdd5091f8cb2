// Package httpapi maps the engine's tagged results onto the auth server's
// JSON wire surface and provides the typed client API servers use to call
// the validation endpoint.
//
// The wire contract is fixed: every response body is
// {valid: bool, user?, session?, token?, payload?, error?} with status 200
// on success and 401 on any authentication failure. The validation surface
// never answers 500; unexpected errors are logged and degraded to 401.
package httpapi

// Package api is the HTTP transport for the social REST API.
//
// A Client sends JSON and multipart requests relative to a base URL, keeps
// credentials in a cookie jar and runs registered request and response hooks
// around every call. Hooks are how the session layer keeps the credential
// fresh; each registration returns a release func that removes it again.
package api

// Package server exposes the gateway state over HTTP.
//
// Routes:
//
//	GET    /backup          download a backup container
//	POST   /backup          restore a container (raw body or multipart field "file")
//	GET    /aliases         list aliases
//	PUT    /aliases/{name}  create or update an alias
//	DELETE /aliases/{name}  remove an alias
//	GET    /settings        current settings with credentials masked
//
// Errors are JSON objects with an "error" field. A restore that is rejected
// or only partly applied answers 400; storage failures answer 500.
package server

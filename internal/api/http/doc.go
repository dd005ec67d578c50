// Package http exposes the blueprint engine over a REST API.
//
// Endpoints cover the registry (list, get, save, delete blueprints) and
// rendering (stored or ad-hoc sources). Rendered manifests come back
// redacted unless the caller asks to reveal secrets; error responses carry
// the stable error kind so clients can branch without parsing messages.
package http

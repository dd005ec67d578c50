// Package middleware provides the HTTP middleware chain for the API.
//
// Key Components:
//   - CORS: cross-origin configuration via gin-contrib/cors
//   - RateLimit: per-IP and global token-bucket limiting
//   - RequestID: correlation IDs on every request
package middleware

// Package api contains the HTTP handlers, request/response models, and
// error mapping for the REST surface. Handlers stay thin: they decode
// and validate payloads, delegate to the service layer, and translate
// service errors into sanitized HTTP responses.
package api

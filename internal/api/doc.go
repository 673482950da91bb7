// Package api adapts HTTP requests to the account service. It decodes and
// validates request bodies, maps service errors to status codes and Spanish
// client messages, and writes JSON responses with {"mensaje": ...} error
// bodies.
package api

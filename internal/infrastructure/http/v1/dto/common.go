// Package dto defines the wire shapes of API v1.
package dto

// IDResponse returns a generated identifier.
type IDResponse struct {
	ID string `json:"id"`
}

// StatusResponse reports the outcome of an operation without a body.
type StatusResponse struct {
	Status string `json:"status"`
}

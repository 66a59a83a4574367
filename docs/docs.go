// Package docs is a placeholder for generated swagger documentation.
// Generate real docs with `swag init -g cmd/api/main.go -o docs`.
package docs

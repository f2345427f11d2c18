// Package storage provides string-valued key-value persistence providers for
// the cart: a JSON file under ~/.cartctl (the default), a Redis hash, and an
// in-memory map. Writes are synchronous; a returned nil error means the value
// is durable as far as the backend reports.
package storage

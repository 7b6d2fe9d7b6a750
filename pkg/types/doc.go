// Package types defines the inventory record, the Store interface, the
// backend configuration and the standard errors shared by the stockroom
// packages.
package types

// Package types defines the Store and Table interfaces, entity types, and
// standard errors for the magbook storage system.
package types

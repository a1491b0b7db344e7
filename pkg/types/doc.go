// Package types defines the entities exchanged with the blog backend, the
// client configuration, and the standard errors shared across blogctl.
package types

// Package core defines the shared language of AutoREST.
//
// This package contains:
//   - The schema model (TypeTag, Column, Table, Registry, Handle)
//   - The request-facing error taxonomy (Kind, Error)
//   - Request methods and adapter configuration
//
// pkg/core imports only the standard library. Every other package depends on
// core, never the reverse.
package core

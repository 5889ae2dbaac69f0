// Package shell contains the shared application-shell pieces that sit between
// the lending engine and the request-handling collaborator: retry with
// exponential backoff for transient conflicts, handler result metadata, and
// the JSON documents the transport layer exchanges.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would
// be called the 'infrastructure' layer.
package shell

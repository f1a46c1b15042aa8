// Package dtdocs provides a documentation search assistant for the
// DataTables library, exposed to AI agents over the Model Context Protocol
// (JSON-RPC 2.0 over stdio). It scrapes datatables.net reference pages,
// stores them with derived structured fields in SQLite with an FTS5
// full-text index, and answers queries through a small set of tools.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package dtdocs

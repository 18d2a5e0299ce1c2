// Package services contains the core application logic, implementing
// the driving port interfaces using the driven port abstractions.
//
// Services orchestrate the document lifecycle (ingest, update, delete),
// similarity search with structural pre-filtering, collection and
// feedback management, and store statistics. They depend only on port
// interfaces, never on concrete adapters.
package services

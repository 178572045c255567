// Package ports defines the interfaces that connect the application layer
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Transport]: Delivers one shot to the ingestion service
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//   - [DeliveryEmitter]: Receives per-shot delivery outcomes
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) provide the HTTP implementation; tests
// substitute in-memory stubs.
package ports

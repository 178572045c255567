// Package domain contains the core entities and value objects for shotship.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (HTTP, queueing, logging) and holds only the data
// that flows from producers to the ingestion endpoint.
//
// # Entities
//
//   - [Detection]: A normalised bounding box with a class label
//   - [Record]: Geolocation of a shot plus its detections
//   - [Task]: One delivery unit, a Record and its image bytes
//
// Tasks are immutable once constructed. A Task is owned by exactly one
// party at a time: the producer until Post returns, then the queue, then the
// delivery worker for the duration of one attempt.
package domain

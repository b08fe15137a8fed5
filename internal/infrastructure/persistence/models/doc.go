// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel
//   - lifecycle.go: status columns shared by the document tables
//   - reconciliation.go: returns, replacements, exchanges, allocations, posting records
//   - inventory.go: stock batches and the stock movement journal
//   - reference.go: read-only stores, suppliers, products, GRNs and sales
//   - outbox.go: outbox pattern model for event delivery
package models

package domain

// MemberID is an internal identifier for a roster entry.
type MemberID string

// AuditRunID identifies a single audit run (a UUID string).
// It appears in logs, HTTP responses and nowhere in the report itself.
type AuditRunID string

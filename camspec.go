// Package camspec extracts the technical specifications of security cameras
// from manufacturer product pages and normalizes them into one hierarchical
// Specification Record that every export format shares.
//
// This package contains domain types, interfaces and the pure normalization
// and shaping logic, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, sqlite/, xlsx/).
package camspec

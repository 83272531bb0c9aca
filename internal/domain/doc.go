// Package domain contains the core entities of the gradebook: users, their
// grade entries, and the validation rules and error taxonomy that govern
// them. It has no dependencies on storage or transport.
package domain

// Package service contains the application use cases. Registry coordinates
// domain validation, credential hashing and the user store to register users,
// authenticate them and track their grades.
//
// Services receive their dependencies through constructor injection and hold
// no package-level state. Expected failures are returned as the domain error
// types so the API layer can map them to status codes with errors.As.
package service

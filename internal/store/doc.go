// Package store defines the persistence interfaces used by the service layer,
// along with the errors every implementation reports. Implementations live
// under internal/platform.
package store

// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Services receive their dependencies through constructor injection and
// depend only on domain entities and store interfaces, never on specific
// infrastructure implementations. The quiz engine lives in the quiz
// subpackage; token and password handling in the auth subpackage.
package service

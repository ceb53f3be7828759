// Package ports defines the interfaces the service layer needs from storage,
// the CMS and the identity provider, so services can be tested with mocks.
package ports

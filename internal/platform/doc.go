// Package platform maps operating systems to deploy implementations.
//
// A generic implementation may redirect to a more specific one (or the
// other way round) by declaring a different target system. Resolve follows
// those redirects and refuses to loop.
package platform

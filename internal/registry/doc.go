// Package registry provides the typed plugin registration used at build time.
//
// Build integrations register the capabilities they bring (a federation
// container and, optionally, subresource integrity) explicitly instead of the
// adapters discovering them by scanning a host's plugin list. The manifest
// emitter and the source transform loader both query the same Registry.
//
// A Registry is populated once during startup and validated before use;
// duplicate registrations are programmer errors and panic.
package registry

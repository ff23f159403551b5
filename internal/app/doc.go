// Package app contains the core application logic. It owns the logger, the
// loaded configuration and the build registry, and exposes the emit, tags,
// transform and serve operations independently of any entrypoint.
package app

// Package collector resolves the federated components used by a server render
// to the script and style assets of their remotes.
//
// A rendered component id has the form "<remote>-<key>". Collect fetches the
// manifest of every configured remote in parallel, then looks up each
// component's chunk list and joins it with the remote's public host. An
// unreachable remote or missing entry drops only the affected components.
//
// Collect is pure and returns a fresh Result. Extractor is a small stateful
// wrapper for callers that prefer to collect once and read tags later.
package collector

// Package emitter implements the build-time manifest emitter.
//
// The host build tool is modelled as an explicit phase pipeline: a Build
// drives every registered Phases value through OnGraphReady (module and chunk
// graph finalized), OnAssetsEmit (assets may still be added or replaced) and
// OnBuildComplete (all files written and hashed). The Emitter records the
// chunk files of every exposed federation module during the first two
// phases and, when an integrity capability is registered, splices content
// digests into the written manifest during the last one. Digests are only
// final after every asset is hashed, which is why the manifest is written
// twice.
//
// StatsBuild is a file-based Build that replays the phases from a bundler's
// stats JSON and output directory.
package emitter

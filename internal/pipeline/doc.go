// Package pipeline defines the hook contract between a bundler host and its
// plugins, and a Driver that runs plugin hooks in the order the contract
// prescribes.
//
// A host calls Driver.Transform for every module as it is loaded,
// Driver.RenderChunk for every finished chunk, and Driver.WriteBundle once
// every output file is on disk. Per-module metadata returned by transform
// hooks is kept in a MetaStore and offered to render hooks, which is the
// only channel between the stages. Driver.Build is a small reference host
// that joins modules into planned chunks; it backs the package tests and
// the plugin tests built on top of them.
package pipeline

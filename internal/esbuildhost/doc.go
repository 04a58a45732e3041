// Package esbuildhost runs an esbuild bundle with pipeline plugins attached.
//
// Transform hooks run from an esbuild OnLoad callback, render hooks run over
// each JavaScript output described by esbuild's metafile, and write hooks run
// once the outputs have been written to disk. esbuild keeps an entry point's
// hashbang on its own; the host removes it again before the render hooks run
// so that the plugins decide what ends up on the first line.
package esbuildhost

// Package shebang implements the plugin that carries an executable shebang
// line through a bundling pipeline.
//
// Three hooks cooperate through per-module metadata:
//
//   - the transform hook (order pre) records the first line of any module that
//     starts with "#!" before other transforms can strip it;
//   - the render hook (order post) finds the shebang of the modules that
//     make up a chunk, applies the configured override and prepends it,
//     returning a source map shifted by one line;
//   - the write hook (order post, sequential) adds the execute bits to every
//     written chunk that starts with "#!".
//
// When several contributing modules carry a shebang, the last one seen wins:
// the chunk's module ids are visited in host order and the facade module is
// visited last. A warning is logged when the candidates disagree.
package shebang

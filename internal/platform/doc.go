// Package platform wraps file permission changes that behave differently
// across operating systems. Windows has no Unix permission bits, so Chmod is
// a no-op there.
package platform

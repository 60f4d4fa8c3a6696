// Package strings validates the names and mount paths modules are built with.
package strings

import std "strings"

// MustString panics with "<name> is required" when s is blank.
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path to one leading slash and no trailing
// slash. The bare root is rejected since modules never mount there.
func MustPrefix(s string) string {
	p := "/" + std.Trim(std.TrimSpace(s), "/ ")
	if p == "/" {
		panic("root path is required")
	}
	return p
}

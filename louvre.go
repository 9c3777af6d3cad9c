// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package louvre parses a small tag-oriented markup language into a document tree.
//
// Text runs become Text nodes. Tags start with '#', e.g. #center or
// #item(1), and are resolved through a table of bindings into an action
// and a node. Branch tags such as #center open a node that collects the
// units that follow it until the matching #end.
//
//	#center
//	THE TITLE
//	#end
//
// A bare '#' is a forced line break and "##" is a literal '#'.
package louvre

import (
	"github.com/maloquacious/semver"
)

// version is shared by the library and the louvre command.
// Build is the VCS commit of the binary, when known.
var version = semver.Version{Major: 0, Minor: 1, Patch: 0, Build: semver.Commit()}

// Version returns the release of this module.
func Version() semver.Version {
	return version
}

package braw

import "strings"

// DefaultLibraryPath is where the SDK installer puts its shared libraries.
const DefaultLibraryPath = "/usr/local/lib"

func Default() SDK {
	return Native(DefaultLibraryPath)
}

func Resolve(t, libraryPath string) SDK {
	switch strings.ToLower(t) {
	case "mock":
		return Mock()
	default:
		if len(libraryPath) == 0 {
			return Default()
		}
		return Native(libraryPath)
	}
}

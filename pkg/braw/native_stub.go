//go:build !braw

package braw

import "github.com/tauraamui/brawextract/pkg/log"

// Native without the braw build tag has no SDK to bind to, every codec
// request fails with StatusNotImpl.
func Native(libraryPath string) SDK {
	return unavailableSDK{libraryPath: libraryPath}
}

type unavailableSDK struct {
	libraryPath string
}

func (s unavailableSDK) CreateCodec() (Codec, Status) {
	log.Warn("built without Blackmagic RAW SDK support, rebuild with -tags braw (library path: %s)", s.libraryPath)
	return nil, StatusNotImpl
}

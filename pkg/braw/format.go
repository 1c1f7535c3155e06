package braw

import (
	"fmt"
	"strings"

	"github.com/tauraamui/xerror"
)

type ResourceFormat uint32

const (
	ResourceFormatRGBAU8 ResourceFormat = iota
	ResourceFormatRGBU8
)

func (f ResourceFormat) BytesPerPixel() int {
	switch f {
	case ResourceFormatRGBAU8:
		return 4
	case ResourceFormatRGBU8:
		return 3
	default:
		return 0
	}
}

func (f ResourceFormat) String() string {
	switch f {
	case ResourceFormatRGBAU8:
		return "rgba"
	case ResourceFormatRGBU8:
		return "rgb"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(f))
	}
}

func ParseResourceFormat(s string) (ResourceFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rgba", "rgbau8":
		return ResourceFormatRGBAU8, nil
	case "rgb", "rgbu8":
		return ResourceFormatRGBU8, nil
	default:
		return 0, xerror.Errorf("unsupported resource format: %s", s)
	}
}

// ResourceType says where a processed image's pixels live. Only CPU
// buffers can be read back from Go.
type ResourceType uint32

const (
	ResourceTypeBufferCPU ResourceType = iota
	ResourceTypeBufferMetal
	ResourceTypeBufferCUDA
	ResourceTypeBufferOpenCL
)

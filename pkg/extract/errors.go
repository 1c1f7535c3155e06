package extract

import (
	"fmt"

	"github.com/tauraamui/brawextract/pkg/braw"
	"github.com/tauraamui/xerror"
)

var (
	ErrNullReadJob      = xerror.New("CreateJobReadFrame returned null job")
	ErrNoProcessedImage = xerror.New("No processed image received from callback")
)

// CallError reports the SDK call which returned a failing status.
type CallError struct {
	Call   string
	Status braw.Status
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Call, e.Status)
}

func callError(call string, status braw.Status) error {
	return &CallError{Call: call, Status: status}
}

// RangeError is returned before any job is created for a frame index
// outside [0, FrameCount).
type RangeError struct {
	Index      int64
	FrameCount uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("Frame %d out of range (0-%d)", e.Index, int64(e.FrameCount)-1)
}

type ResourceTypeError struct {
	Type braw.ResourceType
}

func (e *ResourceTypeError) Error() string {
	return fmt.Sprintf("Unexpected resource type: %d", uint32(e.Type))
}

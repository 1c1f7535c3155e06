package braw

import "fmt"

// Status is the HRESULT every SDK call reports back. Zero is success,
// anything else is a failure the caller must not retry.
type Status uint32

const (
	StatusOK          Status = 0x00000000
	StatusFalse       Status = 0x00000001
	StatusNotImpl     Status = 0x80004001
	StatusPointer     Status = 0x80004003
	StatusFail        Status = 0x80004005
	StatusOutOfMemory Status = 0x8007000e
	StatusInvalidArg  Status = 0x80070057
)

func (s Status) OK() bool {
	return s == StatusOK
}

func (s Status) String() string {
	return fmt.Sprintf("0x%08x", uint32(s))
}

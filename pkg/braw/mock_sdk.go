package braw

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/brawextract/pkg/log"
)

// Call names a single SDK entry point on the mock, used both to inject
// failures and to inspect what a caller actually invoked.
type Call string

const (
	CallCreateCodec                    Call = "Factory.CreateCodec"
	CallOpenClip                       Call = "Codec.OpenClip"
	CallSetCallback                    Call = "Codec.SetCallback"
	CallFlushJobs                      Call = "Codec.FlushJobs"
	CallGetFrameCount                  Call = "Clip.GetFrameCount"
	CallGetWidth                       Call = "Clip.GetWidth"
	CallGetHeight                      Call = "Clip.GetHeight"
	CallGetFrameRate                   Call = "Clip.GetFrameRate"
	CallCreateJobReadFrame             Call = "Clip.CreateJobReadFrame"
	CallSubmitRead                     Call = "ReadJob.Submit"
	CallSetResourceFormat              Call = "Frame.SetResourceFormat"
	CallCreateJobDecodeAndProcessFrame Call = "Frame.CreateJobDecodeAndProcessFrame"
	CallSubmitDecode                   Call = "DecodeJob.Submit"
	CallImageGetWidth                  Call = "ProcessedImage.GetWidth"
	CallImageGetHeight                 Call = "ProcessedImage.GetHeight"
	CallImageGetResourceType           Call = "ProcessedImage.GetResourceType"
	CallImageGetResourceFormat         Call = "ProcessedImage.GetResourceFormat"
	CallImageGetResource               Call = "ProcessedImage.GetResource"
)

// HandleKind groups mock handles for acquire/release accounting.
type HandleKind string

const (
	HandleCodec          HandleKind = "codec"
	HandleClip           HandleKind = "clip"
	HandleJob            HandleKind = "job"
	HandleProcessedImage HandleKind = "processed_image"
)

type MockOptions struct {
	FrameCount   uint64
	Width        uint32
	Height       uint32
	FrameRate    float32
	ResourceType ResourceType
	// Failures makes the named call report the given status.
	Failures map[Call]Status
	// ReadResult and ProcessResult are the results handed to the callback.
	ReadResult    Status
	ProcessResult Status
	// SkipProcess drops the decode job without ever calling ProcessComplete.
	SkipProcess bool
	NilReadJob  bool
	ShortBuffer bool
}

func DefaultMockOptions() MockOptions {
	return MockOptions{
		FrameCount: 24,
		Width:      640,
		Height:     360,
		FrameRate:  24,
	}
}

func Mock() SDK {
	return NewMock(DefaultMockOptions())
}

func NewMock(opts MockOptions) *MockSDK {
	return &MockSDK{
		opts:     opts,
		acquired: map[HandleKind]int{},
		released: map[HandleKind]int{},
	}
}

// MockSDK is an in-memory decoder which renders a synthetic test card for
// every frame. Callbacks fire from their own goroutines like the real SDK's
// worker threads.
type MockSDK struct {
	opts MockOptions

	mu           sync.Mutex
	calls        []Call
	acquired     map[HandleKind]int
	released     map[HandleKind]int
	overReleased int
}

func (m *MockSDK) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockSDK) Called(c Call) bool {
	for _, call := range m.Calls() {
		if call == c {
			return true
		}
	}
	return false
}

func (m *MockSDK) Acquired(k HandleKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired[k]
}

func (m *MockSDK) Released(k HandleKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released[k]
}

// Outstanding is the number of handles acquired but never released.
func (m *MockSDK) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, a := range m.acquired {
		n += a - m.released[k]
	}
	return n
}

// OverReleased counts Release calls on handles which were already released.
func (m *MockSDK) OverReleased() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overReleased
}

func (m *MockSDK) call(c Call) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if s, ok := m.opts.Failures[c]; ok {
		return s
	}
	return StatusOK
}

func (m *MockSDK) acquire(k HandleKind) *mockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquired[k]++
	return &mockHandle{sdk: m, kind: k}
}

func (m *MockSDK) CreateCodec() (Codec, Status) {
	if s := m.call(CallCreateCodec); !s.OK() {
		return nil, s
	}
	return &mockCodec{mockHandle: m.acquire(HandleCodec)}, StatusOK
}

type mockHandle struct {
	sdk      *MockSDK
	kind     HandleKind
	released bool
}

func (h *mockHandle) Release() {
	h.sdk.mu.Lock()
	defer h.sdk.mu.Unlock()
	if h.released {
		h.sdk.overReleased++
		return
	}
	h.released = true
	h.sdk.released[h.kind]++
}

type mockCodec struct {
	*mockHandle

	mu      sync.Mutex
	cb      Callback
	pending sync.WaitGroup
}

func (c *mockCodec) OpenClip(path string) (Clip, Status) {
	if s := c.sdk.call(CallOpenClip); !s.OK() {
		return nil, s
	}
	log.Debug("mock codec opened clip: %s", path)
	return &mockClip{mockHandle: c.sdk.acquire(HandleClip), codec: c}, StatusOK
}

func (c *mockCodec) SetCallback(cb Callback) Status {
	if s := c.sdk.call(CallSetCallback); !s.OK() {
		return s
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cb = cb
	return StatusOK
}

func (c *mockCodec) callback() Callback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cb
}

func (c *mockCodec) FlushJobs() Status {
	c.pending.Wait()
	return c.sdk.call(CallFlushJobs)
}

// dispatch runs fn on a worker goroutine tracked by FlushJobs.
func (c *mockCodec) dispatch(fn func(Callback)) {
	cb := c.callback()
	if cb == nil {
		return
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		fn(cb)
	}()
}

type mockClip struct {
	*mockHandle
	codec *mockCodec
}

func (c *mockClip) GetFrameCount() (uint64, Status) {
	if s := c.sdk.call(CallGetFrameCount); !s.OK() {
		return 0, s
	}
	return c.sdk.opts.FrameCount, StatusOK
}

func (c *mockClip) GetWidth() (uint32, Status) {
	if s := c.sdk.call(CallGetWidth); !s.OK() {
		return 0, s
	}
	return c.sdk.opts.Width, StatusOK
}

func (c *mockClip) GetHeight() (uint32, Status) {
	if s := c.sdk.call(CallGetHeight); !s.OK() {
		return 0, s
	}
	return c.sdk.opts.Height, StatusOK
}

func (c *mockClip) GetFrameRate() (float32, Status) {
	if s := c.sdk.call(CallGetFrameRate); !s.OK() {
		return 0, s
	}
	return c.sdk.opts.FrameRate, StatusOK
}

func (c *mockClip) CreateJobReadFrame(frameIndex uint64) (Job, Status) {
	if s := c.sdk.call(CallCreateJobReadFrame); !s.OK() {
		return nil, s
	}
	if frameIndex >= c.sdk.opts.FrameCount {
		return nil, StatusInvalidArg
	}
	if c.sdk.opts.NilReadJob {
		return nil, StatusOK
	}
	return newMockJob(c.codec, CallSubmitRead, func(cb Callback, job Job) {
		cb.ReadComplete(job, c.sdk.opts.ReadResult, &mockFrame{codec: c.codec, index: frameIndex})
	}), StatusOK
}

type mockJob struct {
	*mockHandle
	id        string
	codec     *mockCodec
	submit    Call
	run       func(Callback, Job)
	submitted bool
}

func newMockJob(codec *mockCodec, submit Call, run func(Callback, Job)) *mockJob {
	return &mockJob{
		mockHandle: codec.sdk.acquire(HandleJob),
		id:         uuid.NewString(),
		codec:      codec,
		submit:     submit,
		run:        run,
	}
}

func (j *mockJob) Submit() Status {
	if s := j.sdk.call(j.submit); !s.OK() {
		return s
	}
	if j.submitted {
		return StatusFail
	}
	j.submitted = true
	log.Debug("mock job %s submitted", j.id)
	j.codec.dispatch(func(cb Callback) { j.run(cb, borrowedJob{j}) })
	return StatusOK
}

// borrowedJob is what callbacks see, releasing it is a no-op.
type borrowedJob struct {
	*mockJob
}

func (b borrowedJob) Release() {}

type mockFrame struct {
	codec  *mockCodec
	index  uint64
	format ResourceFormat
}

func (f *mockFrame) SetResourceFormat(format ResourceFormat) Status {
	if s := f.codec.sdk.call(CallSetResourceFormat); !s.OK() {
		return s
	}
	if format.BytesPerPixel() == 0 {
		return StatusInvalidArg
	}
	f.format = format
	return StatusOK
}

func (f *mockFrame) CreateJobDecodeAndProcessFrame() (Job, Status) {
	sdk := f.codec.sdk
	if s := sdk.call(CallCreateJobDecodeAndProcessFrame); !s.OK() {
		return nil, s
	}
	index, format := f.index, f.format
	return newMockJob(f.codec, CallSubmitDecode, func(cb Callback, job Job) {
		if sdk.opts.SkipProcess {
			return
		}
		if !sdk.opts.ProcessResult.OK() {
			cb.ProcessComplete(job, sdk.opts.ProcessResult, nil)
			return
		}
		cb.ProcessComplete(job, StatusOK, &mockProcessedImage{
			mockHandle: sdk.acquire(HandleProcessedImage),
			width:      sdk.opts.Width,
			height:     sdk.opts.Height,
			format:     format,
			index:      index,
		})
	}), StatusOK
}

type mockProcessedImage struct {
	*mockHandle
	width, height uint32
	format        ResourceFormat
	index         uint64
}

func (i *mockProcessedImage) GetWidth() (uint32, Status) {
	if s := i.sdk.call(CallImageGetWidth); !s.OK() {
		return 0, s
	}
	return i.width, StatusOK
}

func (i *mockProcessedImage) GetHeight() (uint32, Status) {
	if s := i.sdk.call(CallImageGetHeight); !s.OK() {
		return 0, s
	}
	return i.height, StatusOK
}

func (i *mockProcessedImage) GetResourceType() (ResourceType, Status) {
	if s := i.sdk.call(CallImageGetResourceType); !s.OK() {
		return 0, s
	}
	return i.sdk.opts.ResourceType, StatusOK
}

func (i *mockProcessedImage) GetResourceFormat() (ResourceFormat, Status) {
	if s := i.sdk.call(CallImageGetResourceFormat); !s.OK() {
		return 0, s
	}
	return i.format, StatusOK
}

func (i *mockProcessedImage) GetResource() ([]byte, Status) {
	if s := i.sdk.call(CallImageGetResource); !s.OK() {
		return nil, s
	}
	buf := renderTestCardBuffer(int(i.width), int(i.height), i.index, i.format)
	if i.sdk.opts.ShortBuffer {
		buf = buf[:len(buf)/2]
	}
	return buf, StatusOK
}

package extract

import (
	"sync"

	"github.com/tauraamui/brawextract/pkg/braw"
	"github.com/tauraamui/brawextract/pkg/log"
)

// frameCallback chains the decode job off the read job and keeps the one
// processed image it produces. Both fields are written once from SDK
// worker threads and read after FlushJobs returns.
type frameCallback struct {
	format braw.ResourceFormat

	mu       sync.Mutex
	err      error
	image    braw.ProcessedImage
	released bool
}

func newFrameCallback(format braw.ResourceFormat) *frameCallback {
	return &frameCallback{format: format}
}

func (c *frameCallback) ReadComplete(_ braw.Job, result braw.Status, frame braw.Frame) {
	if !result.OK() {
		c.fail(callError("ReadComplete", result))
		return
	}

	if status := frame.SetResourceFormat(c.format); !status.OK() {
		c.fail(callError("SetResourceFormat", status))
		return
	}

	job, status := frame.CreateJobDecodeAndProcessFrame()
	if !status.OK() {
		c.fail(callError("CreateJobDecodeAndProcessFrame", status))
		return
	}
	if job == nil {
		c.fail(callError("CreateJobDecodeAndProcessFrame", braw.StatusPointer))
		return
	}

	status = job.Submit()
	job.Release()
	if !status.OK() {
		c.fail(callError("Submit", status))
	}
}

func (c *frameCallback) ProcessComplete(_ braw.Job, result braw.Status, image braw.ProcessedImage) {
	if !result.OK() {
		if image != nil {
			image.Release()
		}
		c.fail(callError("ProcessComplete", result))
		return
	}
	if image == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released || c.image != nil {
		log.Warn("discarding unexpected processed image")
		image.Release()
		return
	}
	c.image = image
}

func (c *frameCallback) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

func (c *frameCallback) result() (braw.ProcessedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if c.image == nil {
		return nil, ErrNoProcessedImage
	}
	return c.image, nil
}

// release drops the held image, and any that arrives late.
func (c *frameCallback) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	if c.image != nil {
		c.image.Release()
		c.image = nil
	}
}

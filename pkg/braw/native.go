//go:build braw

package braw

/*
#cgo CXXFLAGS: -std=c++11 -I/usr/lib/blackmagic/BlackmagicRAWSDK/Linux/Include -I/usr/local/include/BlackmagicRAW
#cgo LDFLAGS: -ldl -lpthread -lstdc++
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	pointer "github.com/mattn/go-pointer"
	"github.com/tauraamui/brawextract/pkg/log"
)

// Native binds to the vendor SDK, loading its libraries from libraryPath.
func Native(libraryPath string) SDK {
	return &nativeSDK{libraryPath: libraryPath}
}

type nativeSDK struct {
	libraryPath string
}

func (s *nativeSDK) CreateCodec() (Codec, Status) {
	cpath := C.CString(s.libraryPath)
	defer C.free(unsafe.Pointer(cpath))

	factory := C.braw_factory_create(cpath)
	if factory == nil {
		log.Error("unable to load Blackmagic RAW factory from: %s", s.libraryPath)
		return nil, StatusFail
	}

	var codec C.braw_handle
	if status := Status(C.braw_factory_create_codec(factory, &codec)); !status.OK() || codec == nil {
		C.braw_factory_release(factory)
		if status.OK() {
			status = StatusPointer
		}
		return nil, status
	}
	return &nativeCodec{factory: factory, h: codec}, StatusOK
}

type nativeCodec struct {
	factory C.braw_handle
	h       C.braw_handle

	mu       sync.Mutex
	callback C.braw_handle
	userData unsafe.Pointer
	released bool
}

func (c *nativeCodec) OpenClip(path string) (Clip, Status) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var clip C.braw_handle
	if status := Status(C.braw_codec_open_clip(c.h, cpath, &clip)); !status.OK() {
		return nil, status
	}
	if clip == nil {
		return nil, StatusPointer
	}
	return &nativeClip{h: clip}, StatusOK
}

func (c *nativeCodec) SetCallback(cb Callback) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	userData := pointer.Save(cb)
	var callback C.braw_handle
	status := Status(C.braw_codec_set_callback(c.h, userData, &callback))
	if !status.OK() {
		pointer.Unref(userData)
		return status
	}
	c.dropCallback()
	c.callback, c.userData = callback, userData
	return StatusOK
}

func (c *nativeCodec) dropCallback() {
	if c.callback != nil {
		C.braw_callback_destroy(c.callback)
		c.callback = nil
	}
	if c.userData != nil {
		pointer.Unref(c.userData)
		c.userData = nil
	}
}

func (c *nativeCodec) FlushJobs() Status {
	return Status(C.braw_codec_flush_jobs(c.h))
}

func (c *nativeCodec) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	// the codec holds its own reference to the callback until it goes away
	C.braw_codec_release(c.h)
	c.dropCallback()
	C.braw_factory_release(c.factory)
}

type nativeClip struct {
	h        C.braw_handle
	released bool
}

func (c *nativeClip) GetFrameCount() (uint64, Status) {
	var n C.uint64_t
	status := Status(C.braw_clip_frame_count(c.h, &n))
	return uint64(n), status
}

func (c *nativeClip) GetWidth() (uint32, Status) {
	var w C.uint32_t
	status := Status(C.braw_clip_width(c.h, &w))
	return uint32(w), status
}

func (c *nativeClip) GetHeight() (uint32, Status) {
	var h C.uint32_t
	status := Status(C.braw_clip_height(c.h, &h))
	return uint32(h), status
}

func (c *nativeClip) GetFrameRate() (float32, Status) {
	var r C.float
	status := Status(C.braw_clip_frame_rate(c.h, &r))
	return float32(r), status
}

func (c *nativeClip) CreateJobReadFrame(frameIndex uint64) (Job, Status) {
	var job C.braw_handle
	if status := Status(C.braw_clip_create_job_read_frame(c.h, C.uint64_t(frameIndex), &job)); !status.OK() {
		return nil, status
	}
	if job == nil {
		return nil, StatusOK
	}
	return &nativeJob{h: job}, StatusOK
}

func (c *nativeClip) Release() {
	if c.released {
		return
	}
	c.released = true
	C.braw_clip_release(c.h)
}

// nativeJob follows the SDK contract: once submitted, the completion
// callback drops the job's last reference, so Release only frees jobs
// which never made it into the queue.
type nativeJob struct {
	h         C.braw_handle
	submitted bool
	borrowed  bool
	released  bool
}

func (j *nativeJob) Submit() Status {
	status := Status(C.braw_job_submit(j.h))
	if status.OK() {
		j.submitted = true
	}
	return status
}

func (j *nativeJob) Release() {
	if j.released || j.borrowed {
		return
	}
	j.released = true
	if !j.submitted {
		C.braw_job_release(j.h)
	}
}

type nativeFrame struct {
	h C.braw_handle
}

func (f *nativeFrame) SetResourceFormat(format ResourceFormat) Status {
	return Status(C.braw_frame_set_resource_format(f.h, C.uint32_t(format)))
}

func (f *nativeFrame) CreateJobDecodeAndProcessFrame() (Job, Status) {
	var job C.braw_handle
	if status := Status(C.braw_frame_create_job_decode_and_process(f.h, &job)); !status.OK() {
		return nil, status
	}
	if job == nil {
		return nil, StatusPointer
	}
	return &nativeJob{h: job}, StatusOK
}

type nativeProcessedImage struct {
	h        C.braw_handle
	released bool
}

func (i *nativeProcessedImage) GetWidth() (uint32, Status) {
	var w C.uint32_t
	status := Status(C.braw_image_width(i.h, &w))
	return uint32(w), status
}

func (i *nativeProcessedImage) GetHeight() (uint32, Status) {
	var h C.uint32_t
	status := Status(C.braw_image_height(i.h, &h))
	return uint32(h), status
}

func (i *nativeProcessedImage) GetResourceType() (ResourceType, Status) {
	var t C.uint32_t
	status := Status(C.braw_image_resource_type(i.h, &t))
	return ResourceType(t), status
}

func (i *nativeProcessedImage) GetResourceFormat() (ResourceFormat, Status) {
	var f C.uint32_t
	status := Status(C.braw_image_resource_format(i.h, &f))
	return ResourceFormat(f), status
}

// GetResource copies the pixels out of SDK owned memory so the returned
// slice stays valid after Release.
func (i *nativeProcessedImage) GetResource() ([]byte, Status) {
	var (
		data unsafe.Pointer
		size C.uint32_t
	)
	status := Status(C.braw_image_resource(i.h, &data, &size))
	if !status.OK() {
		return nil, status
	}
	if data == nil {
		return nil, StatusPointer
	}
	return C.GoBytes(data, C.int(size)), StatusOK
}

func (i *nativeProcessedImage) Release() {
	if i.released {
		return
	}
	i.released = true
	C.braw_image_release(i.h)
}

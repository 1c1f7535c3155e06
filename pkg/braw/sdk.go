package braw

// SDK is the entry point into the decoder, the factory in vendor terms.
type SDK interface {
	CreateCodec() (Codec, Status)
}

// Codec owns clip creation and the job queue. Release it after every
// clip it opened has been released.
type Codec interface {
	OpenClip(path string) (Clip, Status)
	SetCallback(Callback) Status
	// FlushJobs blocks until every submitted job and any job spawned from
	// inside a callback has completed.
	FlushJobs() Status
	Release()
}

type Clip interface {
	GetFrameCount() (uint64, Status)
	GetWidth() (uint32, Status)
	GetHeight() (uint32, Status)
	GetFrameRate() (float32, Status)
	CreateJobReadFrame(frameIndex uint64) (Job, Status)
	Release()
}

// Job is submitted at most once and released exactly once by whoever
// created it, whether or not submission succeeded.
type Job interface {
	Submit() Status
	Release()
}

// Frame is only valid for the duration of the ReadComplete callback.
type Frame interface {
	SetResourceFormat(ResourceFormat) Status
	CreateJobDecodeAndProcessFrame() (Job, Status)
}

// ProcessedImage is handed to ProcessComplete already referenced, the
// receiver releases it exactly once.
type ProcessedImage interface {
	GetWidth() (uint32, Status)
	GetHeight() (uint32, Status)
	GetResourceType() (ResourceType, Status)
	GetResourceFormat() (ResourceFormat, Status)
	GetResource() ([]byte, Status)
	Release()
}

// Callback receives job completions. Methods are invoked from SDK worker
// threads, never from the goroutine which submitted the job. The jobs
// passed in are borrowed and must not be released.
type Callback interface {
	ReadComplete(job Job, result Status, frame Frame)
	ProcessComplete(job Job, result Status, image ProcessedImage)
}

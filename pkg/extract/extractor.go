package extract

import (
	"context"

	"github.com/spf13/afero"
	"github.com/tauraamui/brawextract/pkg/braw"
	"github.com/tauraamui/brawextract/pkg/frameimage"
	"github.com/tauraamui/brawextract/pkg/log"
	"github.com/tauraamui/xerror"
)

type Option func(*Extractor)

// WithFormat sets the pixel format the decode job is asked to produce.
func WithFormat(f braw.ResourceFormat) Option {
	return func(e *Extractor) { e.format = f }
}

func WithFs(fs afero.Fs) Option {
	return func(e *Extractor) { e.fs = fs }
}

func WithJPEGQuality(q int) Option {
	return func(e *Extractor) { e.quality = q }
}

// Extractor runs one clip operation per call against the SDK. It holds no
// SDK handles between calls.
type Extractor struct {
	sdk     braw.SDK
	format  braw.ResourceFormat
	fs      afero.Fs
	quality int
}

func New(sdk braw.SDK, opts ...Option) *Extractor {
	e := Extractor{
		sdk:     sdk,
		format:  braw.ResourceFormatRGBAU8,
		fs:      afero.NewOsFs(),
		quality: frameimage.DefaultQuality,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return &e
}

func (e *Extractor) openClip(path string) (braw.Codec, braw.Clip, error) {
	codec, status := e.sdk.CreateCodec()
	if !status.OK() {
		return nil, nil, callError("CreateCodec", status)
	}
	if codec == nil {
		return nil, nil, callError("CreateCodec", braw.StatusPointer)
	}

	clip, status := codec.OpenClip(path)
	if !status.OK() || clip == nil {
		codec.Release()
		if status.OK() {
			status = braw.StatusPointer
		}
		return nil, nil, callError("OpenClip", status)
	}
	log.Debug("opened clip: %s", path)
	return codec, clip, nil
}

// Metadata reads the clip's frame count, dimensions and frame rate.
func (e *Extractor) Metadata(path string) (Metadata, error) {
	codec, clip, err := e.openClip(path)
	if err != nil {
		return Metadata{}, err
	}
	defer codec.Release()
	defer clip.Release()

	frameCount, status := clip.GetFrameCount()
	if !status.OK() {
		return Metadata{}, callError("GetFrameCount", status)
	}

	width, status := clip.GetWidth()
	if !status.OK() {
		return Metadata{}, callError("GetWidth", status)
	}

	height, status := clip.GetHeight()
	if !status.OK() {
		return Metadata{}, callError("GetHeight", status)
	}

	frameRate, status := clip.GetFrameRate()
	if !status.OK() {
		return Metadata{}, callError("GetFrameRate", status)
	}

	return Metadata{
		Success:    true,
		FrameCount: frameCount,
		Width:      width,
		Height:     height,
		FrameRate:  frameRate,
		Duration:   duration(frameCount, frameRate),
	}, nil
}

// ExtractFrame decodes a single frame and, when outputPath is set, writes
// it as a JPEG. Nothing is written unless every SDK call succeeded.
func (e *Extractor) ExtractFrame(ctx context.Context, path string, frameIndex int64, outputPath string) (FrameResult, error) {
	codec, clip, err := e.openClip(path)
	if err != nil {
		return FrameResult{}, err
	}
	defer codec.Release()
	defer clip.Release()

	frameCount, status := clip.GetFrameCount()
	if !status.OK() {
		return FrameResult{}, callError("GetFrameCount", status)
	}

	if frameIndex < 0 || uint64(frameIndex) >= frameCount {
		return FrameResult{}, &RangeError{Index: frameIndex, FrameCount: frameCount}
	}

	// the callback must be registered before the read job exists
	cb := newFrameCallback(e.format)
	if status := codec.SetCallback(cb); !status.OK() {
		return FrameResult{}, callError("SetCallback", status)
	}
	defer cb.release()

	if err := e.submitRead(ctx, clip, uint64(frameIndex)); err != nil {
		return FrameResult{}, err
	}

	if status := codec.FlushJobs(); !status.OK() {
		return FrameResult{}, callError("FlushJobs", status)
	}

	processed, err := cb.result()
	if err != nil {
		return FrameResult{}, err
	}

	img, err := readProcessedImage(processed)
	if err != nil {
		return FrameResult{}, err
	}

	rgb, err := frameimage.FromBuffer(img.pixels, img.width, img.height, img.format.BytesPerPixel())
	if err != nil {
		return FrameResult{}, err
	}

	result := FrameResult{
		Success: true,
		Width:   rgb.Bounds().Dx(),
		Height:  rgb.Bounds().Dy(),
	}

	if len(outputPath) == 0 {
		return result, nil
	}

	if err := frameimage.WriteJPEG(e.fs, outputPath, rgb, e.quality); err != nil {
		return FrameResult{}, err
	}
	result.Path = outputPath
	return result, nil
}

func (e *Extractor) submitRead(ctx context.Context, clip braw.Clip, frameIndex uint64) error {
	job, status := clip.CreateJobReadFrame(frameIndex)
	if !status.OK() {
		return callError("CreateJobReadFrame", status)
	}
	if job == nil {
		return ErrNullReadJob
	}
	defer job.Release()

	if err := ctx.Err(); err != nil {
		return xerror.Errorf("frame extraction cancelled: %w", err)
	}

	if status := job.Submit(); !status.OK() {
		return callError("Job submit", status)
	}
	log.Debug("submitted read job for frame %d", frameIndex)
	return nil
}

type decodedImage struct {
	width, height int
	format        braw.ResourceFormat
	pixels        []byte
}

func readProcessedImage(processed braw.ProcessedImage) (decodedImage, error) {
	resourceType, status := processed.GetResourceType()
	if !status.OK() {
		return decodedImage{}, callError("GetResourceType", status)
	}
	if resourceType != braw.ResourceTypeBufferCPU {
		return decodedImage{}, &ResourceTypeError{Type: resourceType}
	}

	format, status := processed.GetResourceFormat()
	if !status.OK() {
		return decodedImage{}, callError("GetResourceFormat", status)
	}
	if format.BytesPerPixel() == 0 {
		return decodedImage{}, xerror.Errorf("Unexpected resource format: %s", format)
	}

	width, status := processed.GetWidth()
	if !status.OK() {
		return decodedImage{}, callError("GetWidth", status)
	}

	height, status := processed.GetHeight()
	if !status.OK() {
		return decodedImage{}, callError("GetHeight", status)
	}

	pixels, status := processed.GetResource()
	if !status.OK() {
		return decodedImage{}, callError("GetResource", status)
	}

	want := int(width) * int(height) * format.BytesPerPixel()
	if len(pixels) < want {
		return decodedImage{}, xerror.Errorf("resource buffer too small: got %d bytes, want %d", len(pixels), want)
	}

	return decodedImage{
		width:  int(width),
		height: int(height),
		format: format,
		pixels: pixels,
	}, nil
}

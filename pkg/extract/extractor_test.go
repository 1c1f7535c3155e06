package extract_test

import (
	"context"
	"errors"
	"image/jpeg"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/brawextract/pkg/braw"
	"github.com/tauraamui/brawextract/pkg/extract"
	"github.com/tauraamui/brawextract/pkg/log"
)

const clipPath = "/clips/A001_C001.braw"

func smallClip() braw.MockOptions {
	return braw.MockOptions{
		FrameCount: 48,
		Width:      32,
		Height:     18,
		FrameRate:  24,
	}
}

func TestMain(m *testing.M) {
	restore := log.Silence()
	defer restore()
	m.Run()
}

func TestMetadataReportsClipProperties(t *testing.T) {
	is := is.New(t)
	sdk := braw.NewMock(smallClip())

	md, err := extract.New(sdk).Metadata(clipPath)
	is.NoErr(err)
	is.Equal(md, extract.Metadata{
		Success:    true,
		FrameCount: 48,
		Width:      32,
		Height:     18,
		FrameRate:  24,
		Duration:   2,
	})
	is.Equal(sdk.Outstanding(), 0)
	is.Equal(sdk.OverReleased(), 0)
}

func TestMetadataDurationIsZeroWithoutFrameRate(t *testing.T) {
	is := is.New(t)
	opts := smallClip()
	opts.FrameRate = 0

	md, err := extract.New(braw.NewMock(opts)).Metadata(clipPath)
	is.NoErr(err)
	is.Equal(md.Duration, float64(0))
	is.Equal(md.FrameCount, uint64(48))
}

func TestMetadataDurationIsFrameCountOverFrameRate(t *testing.T) {
	is := is.New(t)
	opts := smallClip()
	opts.FrameCount = 100
	opts.FrameRate = 25

	md, err := extract.New(braw.NewMock(opts)).Metadata(clipPath)
	is.NoErr(err)
	is.Equal(md.Duration, float64(4))
}

func TestMetadataSurfacesFailingStatusAtEveryCallSite(t *testing.T) {
	tests := []struct {
		call braw.Call
		msg  string
	}{
		{braw.CallCreateCodec, "CreateCodec failed: 0x80004005"},
		{braw.CallOpenClip, "OpenClip failed: 0x80004005"},
		{braw.CallGetFrameCount, "GetFrameCount failed: 0x80004005"},
		{braw.CallGetWidth, "GetWidth failed: 0x80004005"},
		{braw.CallGetHeight, "GetHeight failed: 0x80004005"},
		{braw.CallGetFrameRate, "GetFrameRate failed: 0x80004005"},
	}

	for _, tt := range tests {
		t.Run(string(tt.call), func(t *testing.T) {
			is := is.New(t)
			opts := smallClip()
			opts.Failures = map[braw.Call]braw.Status{tt.call: braw.StatusFail}
			sdk := braw.NewMock(opts)

			_, err := extract.New(sdk).Metadata(clipPath)
			is.True(err != nil)
			is.Equal(err.Error(), tt.msg)

			var callErr *extract.CallError
			is.True(errors.As(err, &callErr))
			is.Equal(callErr.Status, braw.StatusFail)
			is.Equal(sdk.Outstanding(), 0)
		})
	}
}

func TestExtractFrameWithoutOutputReportsDimensions(t *testing.T) {
	is := is.New(t)
	fs := afero.NewMemMapFs()
	sdk := braw.NewMock(smallClip())

	result, err := extract.New(sdk, extract.WithFs(fs)).ExtractFrame(context.Background(), clipPath, 3, "")
	is.NoErr(err)
	is.Equal(result, extract.FrameResult{Success: true, Width: 32, Height: 18})
	is.Equal(sdk.Outstanding(), 0)
	is.Equal(sdk.OverReleased(), 0)

	entries, err := afero.ReadDir(fs, "/")
	is.NoErr(err)
	is.Equal(len(entries), 0)
}

func TestExtractFrameWritesJPEGAndCreatesParentDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	sdk := braw.NewMock(smallClip())
	output := "/out/stills/day1/frame_0007.jpg"

	result, err := extract.New(sdk, extract.WithFs(fs)).ExtractFrame(context.Background(), clipPath, 7, output)
	require.NoError(t, err)
	assert.Equal(t, extract.FrameResult{Success: true, Path: output, Width: 32, Height: 18}, result)

	isDir, err := afero.IsDir(fs, "/out/stills/day1")
	require.NoError(t, err)
	assert.True(t, isDir)

	file, err := fs.Open(output)
	require.NoError(t, err)
	defer file.Close()

	cfg, err := jpeg.DecodeConfig(file)
	require.NoError(t, err)
	assert.Equal(t, result.Width, cfg.Width)
	assert.Equal(t, result.Height, cfg.Height)

	assert.Equal(t, 0, sdk.Outstanding())
	assert.Equal(t, 0, sdk.OverReleased())
}

func TestExtractFrameInRGBFormat(t *testing.T) {
	is := is.New(t)
	fs := afero.NewMemMapFs()

	result, err := extract.New(
		braw.NewMock(smallClip()), extract.WithFs(fs), extract.WithFormat(braw.ResourceFormatRGBU8),
	).ExtractFrame(context.Background(), clipPath, 0, "/out.jpg")
	is.NoErr(err)
	is.Equal(result.Width, 32)

	exists, err := afero.Exists(fs, "/out.jpg")
	is.NoErr(err)
	is.True(exists)
}

func TestExtractFrameOutOfRangeNeverAttemptsDecode(t *testing.T) {
	for _, index := range []int64{-1, 48, 49, 1 << 40} {
		is := is.New(t)
		fs := afero.NewMemMapFs()
		sdk := braw.NewMock(smallClip())

		_, err := extract.New(sdk, extract.WithFs(fs)).ExtractFrame(context.Background(), clipPath, index, "/out/frame.jpg")
		is.True(err != nil)

		var rangeErr *extract.RangeError
		is.True(errors.As(err, &rangeErr))
		is.Equal(rangeErr.Index, index)

		is.True(!sdk.Called(braw.CallSetCallback))
		is.True(!sdk.Called(braw.CallCreateJobReadFrame))
		is.True(!sdk.Called(braw.CallSetResourceFormat))
		is.Equal(sdk.Acquired(braw.HandleJob), 0)
		is.Equal(sdk.Outstanding(), 0)

		exists, err := afero.Exists(fs, "/out/frame.jpg")
		is.NoErr(err)
		is.True(!exists)
	}
}

func TestExtractFrameOutOfRangeMessage(t *testing.T) {
	is := is.New(t)
	_, err := extract.New(braw.NewMock(smallClip())).ExtractFrame(context.Background(), clipPath, 48, "")
	is.Equal(err.Error(), "Frame 48 out of range (0-47)")
}

func TestExtractFrameOnEmptyClipIsOutOfRange(t *testing.T) {
	is := is.New(t)
	opts := smallClip()
	opts.FrameCount = 0

	_, err := extract.New(braw.NewMock(opts)).ExtractFrame(context.Background(), clipPath, 0, "")
	is.Equal(err.Error(), "Frame 0 out of range (0--1)")
}

func TestExtractFrameSurfacesFailingStatusWithoutSideEffects(t *testing.T) {
	tests := []struct {
		name string
		opts func(*braw.MockOptions)
		msg  string
	}{
		{"create codec", fail(braw.CallCreateCodec, braw.StatusFail), "CreateCodec failed: 0x80004005"},
		{"open clip", fail(braw.CallOpenClip, braw.StatusInvalidArg), "OpenClip failed: 0x80070057"},
		{"frame count", fail(braw.CallGetFrameCount, braw.StatusFail), "GetFrameCount failed: 0x80004005"},
		{"set callback", fail(braw.CallSetCallback, braw.StatusNotImpl), "SetCallback failed: 0x80004001"},
		{"create read job", fail(braw.CallCreateJobReadFrame, braw.StatusOutOfMemory), "CreateJobReadFrame failed: 0x8007000e"},
		{"submit read job", fail(braw.CallSubmitRead, braw.StatusFail), "Job submit failed: 0x80004005"},
		{"flush jobs", fail(braw.CallFlushJobs, braw.StatusFail), "FlushJobs failed: 0x80004005"},
		{"set resource format", fail(braw.CallSetResourceFormat, braw.StatusInvalidArg), "SetResourceFormat failed: 0x80070057"},
		{"create decode job", fail(braw.CallCreateJobDecodeAndProcessFrame, braw.StatusFail), "CreateJobDecodeAndProcessFrame failed: 0x80004005"},
		{"submit decode job", fail(braw.CallSubmitDecode, braw.StatusFail), "Submit failed: 0x80004005"},
		{"resource type", fail(braw.CallImageGetResourceType, braw.StatusFail), "GetResourceType failed: 0x80004005"},
		{"resource format", fail(braw.CallImageGetResourceFormat, braw.StatusFail), "GetResourceFormat failed: 0x80004005"},
		{"image width", fail(braw.CallImageGetWidth, braw.StatusFail), "GetWidth failed: 0x80004005"},
		{"image height", fail(braw.CallImageGetHeight, braw.StatusFail), "GetHeight failed: 0x80004005"},
		{"resource", fail(braw.CallImageGetResource, braw.StatusFail), "GetResource failed: 0x80004005"},
		{"read result", func(o *braw.MockOptions) { o.ReadResult = braw.StatusFail }, "ReadComplete failed: 0x80004005"},
		{"process result", func(o *braw.MockOptions) { o.ProcessResult = braw.StatusFail }, "ProcessComplete failed: 0x80004005"},
		{"no processed image", func(o *braw.MockOptions) { o.SkipProcess = true }, "No processed image received from callback"},
		{"null read job", func(o *braw.MockOptions) { o.NilReadJob = true }, "CreateJobReadFrame returned null job"},
		{"gpu resource", func(o *braw.MockOptions) { o.ResourceType = braw.ResourceTypeBufferCUDA }, "Unexpected resource type: 2"},
		{"short buffer", func(o *braw.MockOptions) { o.ShortBuffer = true }, "resource buffer too small: got 1152 bytes, want 2304"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			opts := smallClip()
			tt.opts(&opts)
			sdk := braw.NewMock(opts)

			result, err := extract.New(sdk, extract.WithFs(fs)).ExtractFrame(context.Background(), clipPath, 1, "/out/frames/frame.jpg")
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
			assert.Empty(t, result)

			exists, err := afero.DirExists(fs, "/out")
			require.NoError(t, err)
			assert.False(t, exists, "no output should be created on failure")

			assert.Equal(t, 0, sdk.Outstanding(), "every acquired handle must be released")
			assert.Equal(t, 0, sdk.OverReleased(), "no handle may be released twice")
		})
	}
}

func TestExtractFrameCancelledBeforeSubmit(t *testing.T) {
	is := is.New(t)
	sdk := braw.NewMock(smallClip())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extract.New(sdk).ExtractFrame(ctx, clipPath, 0, "")
	is.True(errors.Is(err, context.Canceled))
	is.True(!sdk.Called(braw.CallSubmitRead))
	is.Equal(sdk.Outstanding(), 0)
}

func fail(call braw.Call, status braw.Status) func(*braw.MockOptions) {
	return func(o *braw.MockOptions) {
		o.Failures = map[braw.Call]braw.Status{call: status}
	}
}

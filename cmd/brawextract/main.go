package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	flags "github.com/jessevdk/go-flags"
	"github.com/spf13/afero"
	"github.com/tauraamui/brawextract/pkg/braw"
	"github.com/tauraamui/brawextract/pkg/config"
	"github.com/tauraamui/brawextract/pkg/configdef"
	"github.com/tauraamui/brawextract/pkg/extract"
	"github.com/tauraamui/brawextract/pkg/log"
	"github.com/tauraamui/brawextract/pkg/report"
	"golang.org/x/term"
)

const usage = "Usage: brawextract metadata <path> | extract_frame <path> [frame_index] [output_path] | extract <path> [--frame N] [--output P] | setup"

var (
	resolveConfig = func() (configdef.Values, error) {
		return config.DefaultResolver().Resolve()
	}
	createConfig = func() error {
		return config.DefaultCreator().Create()
	}
	resolveSDK = func(cfg configdef.Values) braw.SDK {
		return braw.Resolve(cfg.Backend, cfg.SDKLibraryPath)
	}
	outputFs afero.Fs = afero.NewOsFs()
)

// usageError is a malformed invocation, the only failure which changes
// the exit code.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

type extractOptions struct {
	Frame  int64  `short:"f" long:"frame" default:"0" description:"Frame index to extract"`
	Output string `short:"o" long:"output" description:"Output image file path"`
	Args   struct {
		Input string `positional-arg-name:"input" description:"Input BRAW file path"`
	} `positional-args:"yes" required:"yes"`
}

func run(ctx context.Context, args []string, stdout io.Writer) (code int) {
	pretty := isTerminal(stdout)
	respond := func(v interface{}) {
		if err := report.Write(stdout, v, pretty); err != nil {
			log.Error("unable to write response: %v", err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			respond(report.FromPanic(r))
		}
	}()

	if len(args) < 1 {
		respond(report.Failure{Error: usage})
		return 1
	}

	cfg, err := resolveConfig()
	if err != nil {
		respond(report.FromError(err))
		return 1
	}
	pretty = pretty || cfg.Pretty

	result, err := dispatch(ctx, cfg, args)
	if err != nil {
		respond(report.FromError(err))
		var uerr usageError
		if errors.As(err, &uerr) {
			return 1
		}
		return 0
	}
	respond(result)
	return 0
}

func dispatch(ctx context.Context, cfg configdef.Values, args []string) (interface{}, error) {
	command := args[0]
	switch command {
	case "setup":
		return setup()
	case "metadata":
		if len(args) != 2 {
			return nil, usageError{"Usage: brawextract metadata <path>"}
		}
		extractor, err := newExtractor(cfg)
		if err != nil {
			return nil, err
		}
		return extractor.Metadata(args[1])
	case "extract_frame":
		return extractFrame(ctx, cfg, args[1:])
	case "extract":
		return extractWithFlags(ctx, cfg, args[1:])
	default:
		return nil, usageError{fmt.Sprintf("Unknown command: %s", command)}
	}
}

func setup() (interface{}, error) {
	if err := createConfig(); err != nil {
		return nil, err
	}
	return struct {
		Success bool `json:"success"`
	}{Success: true}, nil
}

func extractFrame(ctx context.Context, cfg configdef.Values, args []string) (interface{}, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, usageError{"Usage: brawextract extract_frame <path> [frame_index] [output_path]"}
	}

	var (
		path       = args[0]
		frameIndex int64
		outputPath string
	)
	if len(args) > 1 {
		index, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return nil, usageError{fmt.Sprintf("invalid frame index: %s", args[1])}
		}
		frameIndex = index
	}
	if len(args) > 2 {
		outputPath = args[2]
	}

	extractor, err := newExtractor(cfg)
	if err != nil {
		return nil, err
	}
	return extractor.ExtractFrame(ctx, path, frameIndex, outputPath)
}

func extractWithFlags(ctx context.Context, cfg configdef.Values, args []string) (interface{}, error) {
	var opts extractOptions
	parser := flags.NewParser(&opts, flags.PassDoubleDash)
	parser.Name = "brawextract extract"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, usageError{err.Error()}
	}
	if len(rest) > 0 {
		return nil, usageError{fmt.Sprintf("unexpected arguments: %v", rest)}
	}

	extractor, err := newExtractor(cfg)
	if err != nil {
		return nil, err
	}
	return extractor.ExtractFrame(ctx, opts.Args.Input, opts.Frame, opts.Output)
}

func newExtractor(cfg configdef.Values) (*extract.Extractor, error) {
	format, err := braw.ParseResourceFormat(cfg.ResourceFormat)
	if err != nil {
		return nil, err
	}
	return extract.New(
		resolveSDK(cfg),
		extract.WithFormat(format),
		extract.WithFs(outputFs),
		extract.WithJPEGQuality(cfg.JPEGQuality),
	), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	log.SetLevel(os.Getenv("BRAW_LOGGING_LEVEL"))
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

package configdef

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/dealancer/validate.v2"
)

const (
	BackendNative = "native"
	BackendMock   = "mock"
)

type Values struct {
	SDKLibraryPath string `json:"sdk_library_path" env:"BRAW_SDK_LIBRARY_PATH" validate:"empty=false"`
	Backend        string `json:"backend" env:"BRAW_SDK_BACKEND"`
	ResourceFormat string `json:"resource_format" env:"BRAW_RESOURCE_FORMAT"`
	JPEGQuality    int    `json:"jpeg_quality" env:"BRAW_JPEG_QUALITY" validate:"gte=1 & lte=100"`
	Pretty         bool   `json:"pretty" env:"BRAW_PRETTY_JSON"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.validateChoices()
}

func (v Values) validateChoices() error {
	const validationErrorHeader = "validation failed: %w"
	switch strings.ToLower(v.Backend) {
	case "", BackendNative, BackendMock:
	default:
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("unknown backend: %s", v.Backend))
	}

	switch strings.ToLower(v.ResourceFormat) {
	case "", "rgba", "rgb":
	default:
		return fmt.Errorf(validationErrorHeader, errors.New("resource format must be one of rgba, rgb"))
	}
	return nil
}

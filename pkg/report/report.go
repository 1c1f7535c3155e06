package report

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Failure is the payload for every command which did not succeed.
type Failure struct {
	Error     string `json:"error"`
	Traceback string `json:"traceback,omitempty"`
}

func FromError(err error) Failure {
	return Failure{Error: err.Error()}
}

// FromPanic reports a recovered panic along with the stack it unwound from.
func FromPanic(recovered interface{}) Failure {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	return Failure{
		Error:     err.Error(),
		Traceback: fmt.Sprintf("%+v", errors.WithStack(err)),
	}
}

// Write encodes v as a single JSON document followed by a newline.
func Write(w io.Writer, v interface{}, indent bool) error {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

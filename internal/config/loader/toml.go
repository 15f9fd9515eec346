package loader

import (
	"bytes"
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLDecoder decodes TOML. Unknown keys are rejected so typos in gesture
// tables surface at load time.
type TOMLDecoder struct{}

// Decode implements Decoder.
func (TOMLDecoder) Decode(source string, data []byte, v any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			pe.Message = serr.String()
		}
		return pe
	}
	return nil
}

package loader

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLDecoder decodes YAML. Unknown keys are rejected.
type YAMLDecoder struct{}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// Decode implements Decoder.
func (YAMLDecoder) Decode(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		// An empty document leaves v unchanged.
		return nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}

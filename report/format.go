package report

import (
	"errors"
	"fmt"
)

type Format int

const (
	TextFormat Format = iota
	JSONFormat
	YAMLFormat
)

var ErrBadFormat = errors.New("bad format")

var formatNames = map[string]Format{
	"t":    TextFormat,
	"text": TextFormat,
	"j":    JSONFormat,
	"json": JSONFormat,
	"y":    YAMLFormat,
	"yaml": YAMLFormat,
}

func ParseFormat(v string) (Format, error) {
	f, ok := formatNames[v]
	if !ok {
		return TextFormat, fmt.Errorf("%w: %q", ErrBadFormat, v)
	}
	return f, nil
}

func (f Format) String() string {
	d, _ := f.MarshalText()
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case TextFormat:
		return []byte("text"), nil
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	v, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

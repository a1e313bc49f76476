// Package format holds the parts of the documentation schema shared by the
// prototype and runtime stages: the document header, images and literal
// values, and the version compatibility rules applied before two snapshots
// are compared.
//
// The stage specific schemas live in the sub packages
// [github.com/signadot/apidiff/format/prototype] and
// [github.com/signadot/apidiff/format/runtime].
package format

import (
	"errors"
	"fmt"
)

type Application int

const (
	Factorio Application = iota
)

func (a Application) MarshalText() ([]byte, error) {
	switch a {
	case Factorio:
		return []byte("factorio"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not an application>", a)
	}
}

func (a *Application) UnmarshalText(d []byte) error {
	switch string(d) {
	case "factorio":
		*a = Factorio
		return nil
	}
	return fmt.Errorf("%w: unknown application %q", ErrBadHeader, d)
}

func (a Application) String() string {
	d, err := a.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

type Stage int

const (
	PrototypeStage Stage = iota
	RuntimeStage
)

var ErrBadStage = errors.New("bad stage")

func ParseStage(v string) (Stage, error) {
	s, ok := map[string]Stage{
		"p":         PrototypeStage,
		"prototype": PrototypeStage,
		"r":         RuntimeStage,
		"runtime":   RuntimeStage,
	}[v]
	if ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadStage, v)
}

func (s Stage) String() string {
	d, err := s.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (s Stage) MarshalText() ([]byte, error) {
	switch s {
	case PrototypeStage:
		return []byte("prototype"), nil
	case RuntimeStage:
		return []byte("runtime"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a stage>", s)
	}
}

func (s *Stage) UnmarshalText(d []byte) error {
	ps, err := ParseStage(string(d))
	if err != nil {
		return err
	}
	*s = ps
	return nil
}

// Header is the format and version header every snapshot carries.
type Header struct {
	Application        Application `json:"application"`
	Stage              Stage       `json:"stage"`
	ApplicationVersion string      `json:"application_version"`
	APIVersion         int         `json:"api_version"`
}

// Headed is implemented by snapshots, which all embed a Header.
type Headed interface {
	Head() Header
}

func (h Header) Head() Header { return h }

func (h Header) String() string {
	return fmt.Sprintf("%s @ %s: %s (api %d)", h.Application, h.ApplicationVersion, h.Stage, h.APIVersion)
}

// Image is an auxiliary documentation image.
type Image struct {
	Filename string `json:"filename"`
	Caption  string `json:"caption,omitempty"`
}

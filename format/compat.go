package format

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// The range of api_version values the schemas in this module can decode.
const (
	MinAPIVersion = 4
	MaxAPIVersion = 6
)

var (
	ErrBadHeader             = errors.New("bad header")
	ErrUnsupportedAPIVersion = errors.New("unsupported api version")
	ErrStageMismatch         = errors.New("stage mismatch")
	ErrVersionOrder          = errors.New("source is newer than target")
)

// CheckCompatible checks that two snapshots with headers src and tgt may be
// compared as documents of the given stage.
func CheckCompatible(src, tgt Header, stage Stage) error {
	for _, h := range []Header{src, tgt} {
		if h.Stage != stage {
			return fmt.Errorf("%w: %s snapshot %s, expected %s", ErrStageMismatch, h.ApplicationVersion, h.Stage, stage)
		}
		if h.APIVersion < MinAPIVersion || h.APIVersion > MaxAPIVersion {
			return fmt.Errorf("%w: %s has api version %d, supported [%d, %d]",
				ErrUnsupportedAPIVersion, h.ApplicationVersion, h.APIVersion, MinAPIVersion, MaxAPIVersion)
		}
	}
	sv, err := semVersion(src.ApplicationVersion)
	if err != nil {
		return err
	}
	tv, err := semVersion(tgt.ApplicationVersion)
	if err != nil {
		return err
	}
	if semver.Compare(sv, tv) > 0 {
		return fmt.Errorf("%w: %s > %s", ErrVersionOrder, src.ApplicationVersion, tgt.ApplicationVersion)
	}
	return nil
}

func semVersion(v string) (string, error) {
	sv := v
	if !strings.HasPrefix(sv, "v") {
		sv = "v" + sv
	}
	if !semver.IsValid(sv) {
		return "", fmt.Errorf("%w: invalid application version %q", ErrBadHeader, v)
	}
	return sv, nil
}

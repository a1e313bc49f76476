// Package fetch acquires documentation snapshots from http(s), file or
// mem URLs and decodes them.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/apidiff/debug"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/format/prototype"
	"github.com/signadot/apidiff/format/runtime"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL serves published snapshots as <version>/<stage>-api.json.
const DefaultBaseURL = "https://lua-api.factorio.com"

// Latest refers to the most recent published snapshot.
const Latest = "latest"

var ErrFetch = errors.New("fetch failed")

// Resolve returns the URL of the snapshot ref of the given stage.  A ref
// holding a scheme or naming an existing file is used as is, anything else
// is a version published under base.
func Resolve(base string, stage format.Stage, ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	if _, err := os.Stat(ref); err == nil {
		if abs, err := filepath.Abs(ref); err == nil {
			return "file://" + abs
		}
		return ref
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return url.Join(base, ref, stage.String()+"-api.json")
}

// Snapshot is a decoded snapshot together with the bytes it was decoded
// from.
type Snapshot[D any] struct {
	URL string
	Raw []byte
	Doc *D
}

// Head returns the header of the snapshot document.
func (s *Snapshot[D]) Head() format.Header {
	return any(s.Doc).(format.Headed).Head()
}

type Loader struct {
	fs afs.Service
}

func New(fs afs.Service) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{fs: fs}
}

// Download returns the content at URL.
func (l *Loader) Download(ctx context.Context, URL string) ([]byte, error) {
	if debug.Fetch() {
		debug.Logf("fetch %s\n", URL)
	}
	rc, err := l.fs.OpenURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, URL, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, URL, err)
	}
	if debug.Fetch() {
		debug.Logf("fetched %d bytes from %s\n", len(data), URL)
	}
	return data, nil
}

// Load downloads and decodes the snapshot at URL, checking that it is a
// supported snapshot of the given stage.
func Load[D any, PD interface {
	*D
	format.Headed
}](ctx context.Context, l *Loader, stage format.Stage, URL string) (*Snapshot[D], error) {
	data, err := l.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	doc := PD(new(D))
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrFetch, URL, err)
	}
	h := doc.Head()
	if debug.Fetch() {
		debug.LogAny(h)
	}
	if err := format.CheckCompatible(h, h, stage); err != nil {
		return nil, fmt.Errorf("%s: %w", URL, err)
	}
	return &Snapshot[D]{URL: URL, Raw: data, Doc: doc}, nil
}

func (l *Loader) LoadPrototype(ctx context.Context, URL string) (*Snapshot[prototype.Doc], error) {
	return Load[prototype.Doc](ctx, l, format.PrototypeStage, URL)
}

func (l *Loader) LoadRuntime(ctx context.Context, URL string) (*Snapshot[runtime.Doc], error) {
	return Load[runtime.Doc](ctx, l, format.RuntimeStage, URL)
}

// LoadPair loads the source and target snapshots concurrently and checks
// that they may be compared.
func LoadPair[D any, PD interface {
	*D
	format.Headed
}](ctx context.Context, l *Loader, stage format.Stage, srcURL, tgtURL string) (src, tgt *Snapshot[D], err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src, err = Load[D, PD](gctx, l, stage, srcURL)
		return err
	})
	g.Go(func() error {
		var err error
		tgt, err = Load[D, PD](gctx, l, stage, tgtURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := format.CheckCompatible(PD(src.Doc).Head(), PD(tgt.Doc).Head(), stage); err != nil {
		return nil, nil, err
	}
	return src, tgt, nil
}

package main

import (
	"context"

	"github.com/signadot/apidiff/fetch"
	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/format/prototype"
	"github.com/signadot/apidiff/format/runtime"
	"github.com/signadot/apidiff/policy"
	"github.com/signadot/apidiff/report"
)

// document is the stage independent view of a decoded snapshot.
type document interface {
	format.Headed
	Counts() []report.Count
	Lookup(section, name string) (any, bool)
}

type snapshot struct {
	url string
	raw []byte
	doc document
}

// stageOps binds the loading and diffing of one documentation stage.
type stageOps struct {
	load     func(ctx context.Context, l *fetch.Loader, URL string) (*snapshot, error)
	loadPair func(ctx context.Context, l *fetch.Loader, srcURL, tgtURL string) (src, tgt *snapshot, err error)
	diff     func(from, to document, p policy.Policy) []report.Section
	full     func(doc document, p policy.Policy) []report.Section
}

var stages = map[format.Stage]stageOps{
	format.PrototypeStage: {
		load:     loadOf[prototype.Doc](format.PrototypeStage),
		loadPair: loadPairOf[prototype.Doc](format.PrototypeStage),
		diff: func(from, to document, p policy.Policy) []report.Section {
			return prototype.Diff(from.(*prototype.Doc), to.(*prototype.Doc), p).Sections()
		},
		full: func(doc document, p policy.Policy) []report.Section {
			return prototype.DiffFull(doc.(*prototype.Doc), p).Sections()
		},
	},
	format.RuntimeStage: {
		load:     loadOf[runtime.Doc](format.RuntimeStage),
		loadPair: loadPairOf[runtime.Doc](format.RuntimeStage),
		diff: func(from, to document, p policy.Policy) []report.Section {
			return runtime.Diff(from.(*runtime.Doc), to.(*runtime.Doc), p).Sections()
		},
		full: func(doc document, p policy.Policy) []report.Section {
			return runtime.DiffFull(doc.(*runtime.Doc), p).Sections()
		},
	},
}

func snapshotOf[D any, PD interface {
	*D
	document
}](s *fetch.Snapshot[D]) *snapshot {
	return &snapshot{url: s.URL, raw: s.Raw, doc: PD(s.Doc)}
}

func loadOf[D any, PD interface {
	*D
	document
}](stage format.Stage) func(context.Context, *fetch.Loader, string) (*snapshot, error) {
	return func(ctx context.Context, l *fetch.Loader, URL string) (*snapshot, error) {
		s, err := fetch.Load[D, PD](ctx, l, stage, URL)
		if err != nil {
			return nil, err
		}
		return snapshotOf[D, PD](s), nil
	}
}

func loadPairOf[D any, PD interface {
	*D
	document
}](stage format.Stage) func(context.Context, *fetch.Loader, string, string) (*snapshot, *snapshot, error) {
	return func(ctx context.Context, l *fetch.Loader, srcURL, tgtURL string) (*snapshot, *snapshot, error) {
		src, tgt, err := fetch.LoadPair[D, PD](ctx, l, stage, srcURL, tgtURL)
		if err != nil {
			return nil, nil, err
		}
		return snapshotOf[D, PD](src), snapshotOf[D, PD](tgt), nil
	}
}

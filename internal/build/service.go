package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/config"
	"git.home.luguber.info/inful/docatlas/internal/linkverify"
	"git.home.luguber.info/inful/docatlas/internal/publish"
)

// Service executes site builds.
type Service interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains all inputs of one build.
type Request struct {
	// Config is the loaded playbook.
	Config *config.Config

	// OutputDir overrides Config.Output.Dir when set.
	OutputDir string

	Options Options
}

// Options modify build behavior.
type Options struct {
	// CheckLinks verifies internal links of converted pages. It is also
	// enabled by runtime.check_links.
	CheckLinks bool

	// ManifestPath overrides Config.Output.Manifest when set.
	ManifestPath string

	// DryRun stops after conversion and writes nothing.
	DryRun bool
}

// Result is the outcome of a build.
type Result struct {
	Status Status
	RunID  string

	// Catalog is the frozen catalog, nil when the build failed before it was built.
	Catalog catalog.Reader

	ComponentVersions int
	FilesClassified   int
	FilesDropped      int
	PagesConverted    int
	Published         publish.Result
	BrokenLinks       []linkverify.BrokenLink
	// EventsPublished counts broken link events sent to the event bus.
	EventsPublished int

	OutputPath string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// IsSuccess reports whether the build completed.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// Package feedsource turns already-retrieved feed files into conversion jobs.
//
// Each file is named <gameID>.json where gameID is a bbref-style id; the
// game date comes from that id.
package feedsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/okian/pitchfx/internal/domain/feed"
	"github.com/okian/pitchfx/internal/domain/model"
	"github.com/okian/pitchfx/pkg/logger"
)

const feedExt = ".json"

// Dir loads feeds from one directory.
type Dir struct {
	path   string
	logger logger.Logger
}

// Option applies a configuration option to a Dir.
type Option func(*Dir)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dir) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDir creates a source reading from path.
func NewDir(path string, opts ...Option) *Dir {
	d := &Dir{path: path}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Default().Named("feedsource")
	}
	return d
}

// Files lists the feed files in name order.
func (d *Dir) Files() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("read feed dir %s: %w", d.path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), feedExt) {
			continue
		}
		files = append(files, filepath.Join(d.path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Load decodes every feed file into a Job. Files that fail are skipped and
// reported together in the returned error; the jobs that did load are
// returned alongside it.
func (d *Dir) Load(ctx context.Context) ([]model.Job, error) {
	files, err := d.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFeeds, d.path)
	}

	var (
		jobs []model.Job
		errs *multierror.Error
	)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return jobs, multierror.Append(errs, err).ErrorOrNil()
		}
		j, err := LoadFile(path)
		if err != nil {
			d.logger.Warn(ctx, "skipping feed file", logger.String("file", path), logger.Error(err))
			errs = multierror.Append(errs, err)
			continue
		}
		jobs = append(jobs, j)
	}
	d.logger.Info(ctx, "loaded feeds",
		logger.String("dir", d.path),
		logger.Int("jobs", len(jobs)),
		logger.Int("failed", len(files)-len(jobs)),
	)
	return jobs, errs.ErrorOrNil()
}

// LoadFile decodes one feed file into a Job.
func LoadFile(path string) (model.Job, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id, err := feed.ParseGameID(stem)
	if err != nil {
		return model.Job{}, fmt.Errorf("%s: %w", path, err)
	}
	f, err := feed.DecodeFile(path)
	if err != nil {
		return model.Job{}, fmt.Errorf("%s: %w", path, err)
	}
	return model.Job{
		GameID:   id.Raw,
		GameDate: id.Date,
		Feed:     f,
		Source:   path,
	}, nil
}

// Package locate searches GitHub for repositories worth mining.
package locate

import (
	"context"
	"strings"
	"time"

	"github.com/google/go-github/v29/github"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// Options configure a Locator
type Options struct {
	Query             string
	Keywords          []string
	MaxRepos          int
	RequestsPerMinute int
}

// Locator runs one repository search per keyword
type Locator struct {
	client  *github.Client
	limiter *rate.Limiter
	opts    Options
	log     *zap.SugaredLogger
}

// New returns a Locator. A non-positive RequestsPerMinute disables
// throttling.
func New(client *github.Client, opts Options, log *zap.SugaredLogger) *Locator {
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}
	return &Locator{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
		log:     logger.OrNop(log),
	}
}

// Queries returns the search string for each keyword. With no keywords the
// base query runs alone and doubles as the keyword.
func (l *Locator) Queries() (keywords, queries []string) {
	if len(l.opts.Keywords) == 0 {
		q := strings.TrimSpace(l.opts.Query)
		return []string{q}, []string{q}
	}
	for _, kw := range l.opts.Keywords {
		keywords = append(keywords, kw)
		queries = append(queries, strings.TrimSpace(kw+" "+l.opts.Query))
	}
	return keywords, queries
}

// Search runs query once and returns at most MaxRepos results labelled
// with keyword
func (l *Locator) Search(ctx context.Context, keyword, query string) ([]dataset.RepositoryRecord, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.SearchOptions{ListOptions: github.ListOptions{Page: 1, PerPage: l.opts.MaxRepos}}
	res, _, err := l.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", query)
	}

	var out []dataset.RepositoryRecord
	for i := range res.Repositories {
		if l.opts.MaxRepos > 0 && len(out) >= l.opts.MaxRepos {
			break
		}
		repo := res.Repositories[i]
		out = append(out, dataset.RepositoryRecord{
			Name:        repo.GetFullName(),
			URL:         repo.GetHTMLURL(),
			Stars:       repo.GetStargazersCount(),
			Description: repo.GetDescription(),
			Keyword:     keyword,
		})
	}
	return out, nil
}

// Collect searches every keyword and emits each repository once, in the
// order first found. A failed search is recorded and the next keyword runs.
func (l *Locator) Collect(ctx context.Context, emit func(dataset.RepositoryRecord) error) (dataset.Tally, error) {
	var tally dataset.Tally
	seen := make(map[string]bool)
	keywords, queries := l.Queries()

	for i, query := range queries {
		l.log.Infow("Searching repositories", logger.FieldKeyword, keywords[i])
		repos, err := l.Search(ctx, keywords[i], query)
		if err != nil {
			if ctx.Err() != nil {
				return tally, ctx.Err()
			}
			l.log.Warnw("Search failed", logger.FieldKeyword, keywords[i], logger.FieldError, err)
			tally.Add(dataset.FailedAt(0, err).WithRef(keywords[i]))
			continue
		}
		for _, repo := range repos {
			key := strings.ToLower(repo.Name)
			if seen[key] {
				tally.Add(dataset.SkippedAt(0, dataset.ReasonDuplicate).WithRef(repo.Name))
				continue
			}
			seen[key] = true
			if err := emit(repo); err != nil {
				return tally, err
			}
			l.log.Debugw("Found repository", logger.FieldRepo, repo.Name, "stars", repo.Stars)
			tally.Add(dataset.ParsedAt(0).WithRef(repo.Name))
		}
	}
	return tally, nil
}

// CollectFile runs Collect and writes the records to out
func (l *Locator) CollectFile(ctx context.Context, out string) (dataset.Tally, error) {
	w, err := dataset.Create(out)
	if err != nil {
		return dataset.Tally{}, err
	}
	defer w.Abort()

	tally, err := l.Collect(ctx, func(r dataset.RepositoryRecord) error { return w.Write(r) })
	if err != nil {
		return tally, err
	}
	if err := w.Commit(); err != nil {
		return tally, err
	}
	l.log.Infow("Collected repositories",
		logger.FieldOutput, out,
		logger.FieldCount, tally.Parsed,
		logger.FieldFailed, tally.Failed)
	return tally, nil
}

// Package github keeps submitted ratings in a spreadsheet file committed to
// a GitHub repository.
package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
	"travel_planner/internal/sheet"
)

const (
	// DefaultTimeout is the HTTP timeout for every GitHub call.
	DefaultTimeout = 20 * time.Second

	// MaxAttempts bounds the read-modify-write cycle when the file SHA moves under us.
	MaxAttempts = 3
)

type Config struct {
	Token  string
	Owner  string
	Repo   string
	Path   string // e.g. data/ratings.xlsx
	Branch string // empty means the default branch
	RPS    int

	// BaseURL overrides https://api.github.com/ (tests, GitHub Enterprise).
	BaseURL string
}

// Store implements domain.RatingStore on top of the repository contents API.
type Store struct {
	gh     *gh.Client
	owner  string
	repo   string
	path   string
	branch string
	rl     *rate.Limiter
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required")
	}
	if cfg.Path == "" {
		cfg.Path = "ratings.xlsx"
	}
	if ext := strings.ToLower(path.Ext(cfg.Path)); ext != ".xlsx" {
		return nil, fmt.Errorf("github: ratings file must be .xlsx, got %q", cfg.Path)
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}

	hc := &http.Client{}
	if cfg.Token != "" {
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	}
	hc.Timeout = DefaultTimeout
	client := gh.NewClient(hc)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github: base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Store{
		gh:     client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		path:   cfg.Path,
		branch: cfg.Branch,
		rl:     rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
	}, nil
}

// List returns every rating in file order. A missing file is an empty list.
func (s *Store) List(ctx context.Context) ([]domain.Destination, error) {
	tbl, _, exists, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []domain.Destination{}, nil
	}
	out, errs := sheet.ToDestinations(tbl)
	for _, e := range errs {
		log.Warn().Err(e).Str("path", s.path).Msg("skipping malformed rating row")
	}
	if out == nil {
		out = []domain.Destination{}
	}
	return out, nil
}

// Get finds a rating by city, case-insensitively.
func (s *Store) Get(ctx context.Context, city string) (domain.Destination, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return domain.Destination{}, err
	}
	key := domain.CityKey(city)
	for _, d := range rows {
		if d.CityKey() == key {
			return d, nil
		}
	}
	return domain.Destination{}, fmt.Errorf("%w: rating for %s", domain.ErrNotFound, strings.TrimSpace(city))
}

// Append adds d as a new row and commits the file. The blob SHA read at the
// start of a cycle guards the write; a conflicting write restarts the cycle.
func (s *Store) Append(ctx context.Context, d domain.Destination) error {
	key := d.CityKey()
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		tbl, sha, exists, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		if exists {
			// raw city cells, so a row that no longer maps cleanly still counts
			for _, city := range sheet.Cities(tbl) {
				if domain.CityKey(city) == key {
					return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, d.City)
				}
			}
		}

		var buf bytes.Buffer
		if err := sheet.AppendDestination(tbl, d).WriteXLSX(&buf); err != nil {
			return fmt.Errorf("encode ratings: %w", err)
		}

		err = s.write(ctx, buf.Bytes(), sha, exists, "Add rating for "+d.City)
		if err == nil {
			return nil
		}
		if !isConflict(err) {
			return err
		}
		if attempt == MaxAttempts-1 {
			break
		}
		log.Warn().Int("attempt", attempt+1).Str("city", d.City).
			Str("err_type", observability.LabelErr(err)).Msg("ratings file changed during append, retrying")
		if !sleepCtx(ctx, retryWait(attempt)) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("github: append %s: file kept changing after %d attempts", d.City, MaxAttempts)
}

// fetch reads and decodes the ratings file. exists is false on 404.
func (s *Store) fetch(ctx context.Context) (sheet.Table, string, bool, error) {
	if err := s.rl.Wait(ctx); err != nil {
		return sheet.Table{}, "", false, err
	}

	start := time.Now()
	fc, _, resp, err := s.gh.Repositories.GetContents(ctx, s.owner, s.repo, s.path,
		&gh.RepositoryContentGetOptions{Ref: s.branch})
	observability.ObserveExternal("github", "get_contents", statusOf(resp), time.Since(start))
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return sheet.Table{}, "", false, nil
		}
		return sheet.Table{}, "", false, fmt.Errorf("github get contents: %w: %w", domain.ErrSourceUnavailable, err)
	}
	if fc == nil {
		return sheet.Table{}, "", false, fmt.Errorf("github: %s is a directory, not a file", s.path)
	}

	raw, err := s.content(ctx, fc)
	if err != nil {
		return sheet.Table{}, "", false, err
	}
	tbl, err := sheet.Decode(s.path, raw)
	if err != nil {
		return sheet.Table{}, "", false, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return tbl, fc.GetSHA(), true, nil
}

// content returns the file bytes; files over 1MB come back without inline
// content and need a separate download.
func (s *Store) content(ctx context.Context, fc *gh.RepositoryContent) ([]byte, error) {
	if fc.GetEncoding() != "none" {
		c, err := fc.GetContent()
		if err != nil {
			return nil, fmt.Errorf("github content: %w", err)
		}
		return []byte(c), nil
	}

	start := time.Now()
	rc, resp, err := s.gh.Repositories.DownloadContents(ctx, s.owner, s.repo, s.path,
		&gh.RepositoryContentGetOptions{Ref: s.branch})
	observability.ObserveExternal("github", "download_contents", statusOf(resp), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("github download: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *Store) write(ctx context.Context, body []byte, sha string, exists bool, msg string) error {
	if err := s.rl.Wait(ctx); err != nil {
		return err
	}
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(msg),
		Content: body,
	}
	if s.branch != "" {
		opts.Branch = gh.Ptr(s.branch)
	}

	start := time.Now()
	var (
		resp *gh.Response
		err  error
	)
	if exists {
		opts.SHA = gh.Ptr(sha)
		_, resp, err = s.gh.Repositories.UpdateFile(ctx, s.owner, s.repo, s.path, opts)
		observability.ObserveExternal("github", "update_file", statusOf(resp), time.Since(start))
	} else {
		_, resp, err = s.gh.Repositories.CreateFile(ctx, s.owner, s.repo, s.path, opts)
		observability.ObserveExternal("github", "create_file", statusOf(resp), time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("github commit %s: %w", s.path, err)
	}
	return nil
}

func statusOf(resp *gh.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func statusCode(err error) int {
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	return 0
}

// isConflict reports a stale SHA: 409 on update, 422 when a create races
// another create.
func isConflict(err error) bool {
	switch statusCode(err) {
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

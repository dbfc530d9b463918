// Package listsync mirrors a target account's followers into a private list
// owned by the caller.
//
// A run is strictly sequential: read follower IDs, find or create the list
// named after the target, add the target itself, then add followers in
// batches of [MaxBatchSize]. The first failure before the batch phase ends the
// run with an [*Error] carrying one [Code]; batch failures are counted and
// reported on the [Result] without aborting.
package listsync

import (
	"context"
	"io"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mikequentel/otherside/internal/model"
	"github.com/mikequentel/otherside/internal/twitterapi"
)

const (
	DefaultListMode    = "private"
	DefaultDescription = "List generated by Otherside for Twitter https://otherside.site"
)

var validTarget = regexp.MustCompile(`^\w+$`)

// ValidTarget reports whether handle is a syntactically valid screen name.
func ValidTarget(handle string) bool {
	return validTarget.MatchString(handle)
}

// Connect builds the platform client for one caller.
type Connect func(ctx context.Context, creds model.Credentials) twitterapi.Platform

// Options tune a [Workflow]. Zero values select the defaults.
type Options struct {
	BatchSize    int     // user IDs per create_all call, capped at MaxBatchSize
	FollowerPage int     // count sent to followers/ids
	ListMode     string  // visibility of created lists
	Description  string  // description of created lists
	BatchRate    float64 // create_all calls per second; <= 0 means unpaced
	Logger       *log.Logger
}

// Workflow runs sync requests. It holds configuration only and is safe for
// concurrent use by independent runs.
type Workflow struct {
	connect Connect
	opts    Options
	logger  *log.Logger
}

// Result describes a completed run.
type Result struct {
	RedirectURI string // canonical URI of the synced list
	List        model.ListRecord
	Created     bool // list was created by this run
	Followers   int
	Batches     int // create_all calls attempted
	Failures    []model.BatchFailure
}

// FailedMembers counts user IDs whose batch was not accepted.
func (r *Result) FailedMembers() int {
	n := 0
	for _, f := range r.Failures {
		n += f.Size
	}
	return n
}

// New returns a Workflow that reaches the platform through connect.
func New(connect Connect, opts Options) *Workflow {
	if opts.BatchSize <= 0 || opts.BatchSize > MaxBatchSize {
		opts.BatchSize = MaxBatchSize
	}
	if opts.FollowerPage <= 0 || opts.FollowerPage > twitterapi.MaxFollowerPage {
		opts.FollowerPage = twitterapi.MaxFollowerPage
	}
	if opts.ListMode == "" {
		opts.ListMode = DefaultListMode
	}
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Workflow{connect: connect, opts: opts, logger: logger}
}

// Sync mirrors target's followers into the caller's list named target.
func (w *Workflow) Sync(ctx context.Context, creds model.Credentials, target string) (*Result, error) {
	logger := w.logger.With("run", uuid.NewString(), "target", target)

	if !creds.Present() {
		return nil, fail(CodeAuth, "validate", ErrMissingCredentials)
	}
	if !ValidTarget(target) {
		return nil, fail(CodeTarget, "validate", ErrInvalidTarget)
	}

	platform := w.connect(ctx, creds)

	ids, err := platform.FollowerIDs(ctx, target, w.opts.FollowerPage)
	if err != nil {
		logger.Error("follower lookup failed", "err", err)
		return nil, fail(CodeFollowers, "followers", err)
	}
	logger.Debug("followers resolved", "count", len(ids))

	list, created, err := w.ResolveList(ctx, platform, target)
	if err != nil {
		logger.Error("list resolution failed", "err", err)
		return nil, err
	}
	logger.Debug("list resolved", "list", list.ID, "slug", list.Slug, "created", created)

	// the target goes in too so their own posts show alongside followers
	if err := platform.AddMember(ctx, list.ID, target); err != nil {
		logger.Error("adding target failed", "list", list.ID, "err", err)
		return nil, fail(CodeModifyList, "add-target", err)
	}

	res := &Result{
		RedirectURI: list.URI,
		List:        *list,
		Created:     created,
		Followers:   len(ids),
	}
	w.populate(ctx, platform, list.ID, ids, res, logger)

	logger.Info("sync complete",
		"list", list.ID,
		"followers", res.Followers,
		"batches", res.Batches,
		"failed_batches", len(res.Failures))
	return res, nil
}

// ResolveList returns the caller's list whose slug equals target, creating a
// new one when none exists. created reports which path was taken.
func (w *Workflow) ResolveList(ctx context.Context, platform twitterapi.Platform, target string) (list *model.ListRecord, created bool, err error) {
	lists, err := platform.OwnedLists(ctx)
	if err != nil {
		return nil, false, fail(CodeCreateList, "lists", err)
	}
	for i := range lists {
		if lists[i].Slug == target {
			list = &lists[i]
			break
		}
	}
	if list == nil {
		list, err = platform.CreateList(ctx, target, w.opts.ListMode, w.opts.Description)
		if err != nil {
			return nil, false, fail(CodeCreateList, "create-list", err)
		}
		created = true
	}
	if !list.HasID() {
		return nil, false, fail(CodeCreateList, "create-list", ErrNullListID)
	}
	return list, created, nil
}

// populate adds ids to the list one batch at a time. Failed batches are
// recorded and skipped; once ctx is done the remaining batches are recorded
// as failed without being sent.
func (w *Workflow) populate(ctx context.Context, platform twitterapi.Platform, listID string, ids []int64, res *Result, logger *log.Logger) {
	limit := rate.Inf
	if w.opts.BatchRate > 0 {
		limit = rate.Limit(w.opts.BatchRate)
	}
	pacer := rate.NewLimiter(limit, 1)

	batches := Partition(ids, w.opts.BatchSize)
	for i, batch := range batches {
		if err := pacer.Wait(ctx); err != nil {
			for j := i; j < len(batches); j++ {
				res.Failures = append(res.Failures, model.BatchFailure{Index: j, Size: len(batches[j]), Err: err})
			}
			logger.Warn("bulk add interrupted", "remaining", len(batches)-i, "err", err)
			return
		}
		res.Batches++
		if err := platform.AddMembers(ctx, listID, batch); err != nil {
			res.Failures = append(res.Failures, model.BatchFailure{Index: i, Size: len(batch), Err: err})
			logger.Warn("bulk add failed", "batch", i, "size", len(batch), "err", err)
			continue
		}
		logger.Debug("bulk add", "batch", i, "size", len(batch))
	}
}

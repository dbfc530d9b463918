// Package twitterapi adapts the X/Twitter v1.1 list and follower endpoints to the
// operations the sync workflow needs.
package twitterapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"

	"github.com/mikequentel/otherside/internal/model"
)

// MaxFollowerPage is the largest count followers/ids accepts in one page.
const MaxFollowerPage = 5000

// Platform is the set of remote operations a sync run issues.
type Platform interface {
	FollowerIDs(ctx context.Context, screenName string, count int) ([]int64, error)
	OwnedLists(ctx context.Context) ([]model.ListRecord, error)
	CreateList(ctx context.Context, name, mode, description string) (*model.ListRecord, error)
	AddMember(ctx context.Context, listID, screenName string) error
	AddMembers(ctx context.Context, listID string, userIDs []int64) error
}

// StatusError is returned when the platform answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Err        error // decoded API error, may be nil
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }

// ErrInvalidListID is returned when a list ID cannot be sent to the platform.
var ErrInvalidListID = errors.New("invalid list id")

// Client implements [Platform] on top of go-twitter.
type Client struct {
	api *twitter.Client
}

// New wraps an already-authorized HTTP client.
func New(httpClient *http.Client) *Client {
	return &Client{api: twitter.NewClient(httpClient)}
}

// Connector builds a [Platform] for one caller's token pair.
type Connector struct {
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// Connect signs requests with the application consumer pair and the caller's
// access token. A base *http.Client stored under [oauth1.HTTPClient] in ctx is
// used as the underlying transport.
func (c Connector) Connect(ctx context.Context, creds model.Credentials) Platform {
	config := oauth1.NewConfig(c.ConsumerKey, c.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(ctx, token)
	httpClient.Timeout = c.Timeout
	return New(httpClient)
}

func (c *Client) FollowerIDs(ctx context.Context, screenName string, count int) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids, resp, err := c.api.Followers.IDs(&twitter.FollowerIDParams{
		ScreenName: screenName,
		Cursor:     -1,
		Count:      count,
	})
	if err := checkResponse("GET followers/ids", resp, err); err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, nil
	}
	return ids.IDs, nil
}

func (c *Client) OwnedLists(ctx context.Context) ([]model.ListRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lists, resp, err := c.api.Lists.List(&twitter.ListsListParams{})
	if err := checkResponse("GET lists/list", resp, err); err != nil {
		return nil, err
	}
	out := make([]model.ListRecord, 0, len(lists))
	for i := range lists {
		out = append(out, toRecord(&lists[i]))
	}
	return out, nil
}

func (c *Client) CreateList(ctx context.Context, name, mode, description string) (*model.ListRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list, resp, err := c.api.Lists.Create(name, &twitter.ListsCreateParams{
		Mode:        mode,
		Description: description,
	})
	if err := checkResponse("POST lists/create", resp, err); err != nil {
		return nil, err
	}
	if list == nil {
		return &model.ListRecord{}, nil
	}
	rec := toRecord(list)
	return &rec, nil
}

func (c *Client) AddMember(ctx context.Context, listID, screenName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := parseListID(listID)
	if err != nil {
		return err
	}
	resp, err := c.api.Lists.MembersCreate(&twitter.ListsMembersCreateParams{
		ListID:     id,
		ScreenName: screenName,
	})
	return checkResponse("POST lists/members/create", resp, err)
}

func (c *Client) AddMembers(ctx context.Context, listID string, userIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := parseListID(listID)
	if err != nil {
		return err
	}
	resp, err := c.api.Lists.MembersCreateAll(&twitter.ListsMembersCreateAllParams{
		ListID: id,
		UserID: JoinIDs(userIDs),
	})
	return checkResponse("POST lists/members/create_all", resp, err)
}

// JoinIDs renders user IDs as the comma-separated form create_all expects.
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// checkResponse folds go-twitter's (resp, err) pair into one error. go-twitter
// only reports non-2xx answers when the body decodes to a non-empty API error,
// so the status is checked here as well.
func checkResponse(op string, resp *http.Response, err error) error {
	var apiErr twitter.APIError
	if errors.As(err, &apiErr) {
		code := 0
		if resp != nil {
			code = resp.StatusCode
		}
		return &StatusError{Op: op, StatusCode: code, Err: err}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil {
		return fmt.Errorf("%s: no response", op)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return nil
}

func parseListID(listID string) (int64, error) {
	id, err := strconv.ParseInt(listID, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidListID, listID)
	}
	return id, nil
}

func toRecord(l *twitter.List) model.ListRecord {
	rec := model.ListRecord{
		ID:   l.IDStr,
		Slug: l.Slug,
		URI:  l.URI,
	}
	if rec.ID == "" && l.ID != 0 {
		rec.ID = strconv.FormatInt(l.ID, 10)
	}
	if l.User != nil {
		rec.Owner = l.User.ScreenName
	}
	return rec
}

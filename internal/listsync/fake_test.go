package listsync

import (
	"context"
	"fmt"

	"github.com/mikequentel/otherside/internal/model"
	"github.com/mikequentel/otherside/internal/twitterapi"
)

// fakePlatform records every call and serves lists from memory.
type fakePlatform struct {
	followers    []int64
	followersErr error
	lists        []model.ListRecord
	listsErr     error
	createErr    error
	createNullID bool
	addErr       error
	bulkErr      func(batch int) error

	calls     []string
	pageSizes []int
	creates   int
	added     []string
	bulk      [][]int64
	bulkLists []string
}

func (f *fakePlatform) FollowerIDs(_ context.Context, screenName string, count int) ([]int64, error) {
	f.calls = append(f.calls, "followers")
	f.pageSizes = append(f.pageSizes, count)
	if f.followersErr != nil {
		return nil, f.followersErr
	}
	return f.followers, nil
}

func (f *fakePlatform) OwnedLists(context.Context) ([]model.ListRecord, error) {
	f.calls = append(f.calls, "lists")
	if f.listsErr != nil {
		return nil, f.listsErr
	}
	out := make([]model.ListRecord, len(f.lists))
	copy(out, f.lists)
	return out, nil
}

func (f *fakePlatform) CreateList(_ context.Context, name, mode, description string) (*model.ListRecord, error) {
	f.calls = append(f.calls, "create:"+mode)
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createNullID {
		return &model.ListRecord{Slug: name}, nil
	}
	rec := model.ListRecord{
		ID:    fmt.Sprintf("%d", 1000+len(f.lists)),
		Slug:  name,
		Owner: "me",
		URI:   "/me/lists/" + name,
	}
	f.lists = append(f.lists, rec)
	return &rec, nil
}

func (f *fakePlatform) AddMember(_ context.Context, listID, screenName string) error {
	f.calls = append(f.calls, "add")
	f.added = append(f.added, listID+":"+screenName)
	return f.addErr
}

func (f *fakePlatform) AddMembers(_ context.Context, listID string, userIDs []int64) error {
	f.calls = append(f.calls, "bulk")
	f.bulk = append(f.bulk, userIDs)
	f.bulkLists = append(f.bulkLists, listID)
	if f.bulkErr != nil {
		return f.bulkErr(len(f.bulk) - 1)
	}
	return nil
}

// connectFake returns a Connect that always hands out p and counts connections.
func connectFake(p *fakePlatform, connects *int) Connect {
	return func(context.Context, model.Credentials) twitterapi.Platform {
		if connects != nil {
			*connects++
		}
		return p
	}
}

func seq(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids
}

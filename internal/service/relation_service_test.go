package service

import (
	"context"
	"errors"
	"testing"
)

func TestFollowUnfollowCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.relations.Follow(ctx, bob, alice)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if res.FollowCount != 1 || res.FollowerCount != 1 {
		t.Fatalf("follow result = %+v", res)
	}
	if _, err := f.relations.Follow(ctx, carol, alice); err != nil {
		t.Fatalf("second follower: %v", err)
	}
	if _, err := f.relations.Follow(ctx, bob, alice); !errors.Is(err, ErrAlreadyFollowed) {
		t.Fatalf("duplicate follow err = %v", err)
	}

	followers, err := f.relations.ListFollowers(ctx, 0, alice, 1, 10)
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if followers.Total != 2 || len(followers.Users) != 2 {
		t.Fatalf("followers = %+v", followers)
	}
	following, err := f.relations.ListFollowing(ctx, bob, bob, 1, 10)
	if err != nil || following.Total != 1 || following.Users[0].ID != alice || following.Users[0].FollowerCount != 2 || !following.Users[0].FollowedByMe {
		t.Fatalf("following = %+v, err = %v", following, err)
	}

	res, err = f.relations.Unfollow(ctx, bob, alice)
	if err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if res.FollowCount != 0 || res.FollowerCount != 1 {
		t.Fatalf("unfollow result = %+v", res)
	}
	if _, err := f.relations.Unfollow(ctx, bob, alice); !errors.Is(err, ErrNotFollowed) {
		t.Fatalf("second unfollow err = %v", err)
	}
}

func TestFollowValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.relations.Follow(ctx, bob, bob); !errors.Is(err, ErrCannotFollowSelf) {
		t.Fatalf("self follow err = %v", err)
	}
	if _, err := f.relations.Follow(ctx, bob, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
	if _, err := f.relations.ListFollowers(ctx, bob, 999, 1, 10); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user list err = %v", err)
	}
}

func TestMutualFollowsAndBatchStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, pair := range [][2]int64{{alice, bob}, {bob, alice}, {alice, carol}} {
		if _, err := f.relations.Follow(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("follow %v: %v", pair, err)
		}
	}

	mutual, err := f.relations.ListMutual(ctx, alice, 1, 10)
	if err != nil {
		t.Fatalf("mutual: %v", err)
	}
	if mutual.Total != 1 || mutual.Users[0].ID != bob || !mutual.Users[0].FollowedByMe {
		t.Fatalf("mutual = %+v", mutual)
	}

	// carol 查看 alice 的关注列表：bob、carol 自己都不在 carol 的关注里
	seen, err := f.relations.ListFollowing(ctx, carol, alice, 1, 10)
	if err != nil || seen.Total != 2 {
		t.Fatalf("alice following seen by carol = %+v, err = %v", seen, err)
	}
	for _, u := range seen.Users {
		if u.FollowedByMe {
			t.Fatalf("carol follows nobody, got %+v", u)
		}
	}

	batch, err := f.relations.StatusBatch(ctx, alice, []int64{bob, carol, reviewer})
	if err != nil {
		t.Fatalf("batch status: %v", err)
	}
	if !batch.Following[bob] || !batch.Following[carol] || batch.Following[reviewer] || len(batch.Following) != 3 {
		t.Fatalf("batch status = %v", batch.Following)
	}

	status, err := f.relations.Status(ctx, carol, alice)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Following || !status.FollowedBy || status.Mutual {
		t.Fatalf("carol -> alice = %+v", status)
	}
	if st, err := f.relations.Status(ctx, alice, bob); err != nil || !st.Mutual {
		t.Fatalf("alice <-> bob = %+v, err = %v", st, err)
	}
}

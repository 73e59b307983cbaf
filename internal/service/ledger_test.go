package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trailnote-go/internal/authz"

	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"
)

func TestLikeUnlikeKeepsCounterInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.publicDiary(t, alice, "Kyoto in autumn", "japan")

	res, err := f.likes.Like(ctx, bob, id)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !res.Liked || res.LikeCount != 1 {
		t.Fatalf("like result = %+v, want liked with count 1", res)
	}
	if _, err := f.likes.Like(ctx, carol, id); err != nil {
		t.Fatalf("second like: %v", err)
	}

	if _, err := f.likes.Like(ctx, bob, id); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("duplicate like err = %v, want ErrAlreadyLiked", err)
	}
	if !errors.Is(ErrAlreadyLiked, ErrAlreadyDone) {
		t.Fatalf("ErrAlreadyLiked should be an AlreadyDone error")
	}

	res, err = f.likes.Unlike(ctx, bob, id)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if res.Liked || res.LikeCount != 1 {
		t.Fatalf("unlike result = %+v, want not liked with count 1", res)
	}
	if _, err := f.likes.Unlike(ctx, bob, id); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("second unlike err = %v, want ErrNotLiked", err)
	}

	d := f.diary(t, id)
	if rows := f.count(t, &model.Like{}, "diary_id = ?", id); d.LikeCount != rows {
		t.Fatalf("like_count = %d, like rows = %d", d.LikeCount, rows)
	}
	if len(f.cache.invalidated) != 3 {
		t.Fatalf("affinity invalidations = %v, want one per successful like/unlike", f.cache.invalidated)
	}
}

func TestLikeRequiresPublicDiary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.diaries.Create(ctx, asUser(alice), &createReq{Title: "Draft", Content: "not yet"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.likes.Like(ctx, bob, info.ID); !errors.Is(err, ErrDiaryNotFound) {
		t.Fatalf("like pending diary err = %v, want ErrDiaryNotFound", err)
	}
	if _, err := f.likes.Like(ctx, bob, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("like missing diary err = %v, want NotFound", err)
	}
	if n := f.count(t, &model.Like{}, "1 = 1"); n != 0 {
		t.Fatalf("like rows = %d, want 0", n)
	}
}

func TestUnlikeWithDriftedCounterRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.publicDiary(t, alice, "Lisbon trams")

	if _, err := f.likes.Like(ctx, bob, id); err != nil {
		t.Fatalf("like: %v", err)
	}
	// 人为制造计数漂移
	if err := f.db.Model(&model.Diary{}).Where("id = ?", id).UpdateColumn("like_count", 0).Error; err != nil {
		t.Fatalf("drift: %v", err)
	}

	if _, err := f.likes.Unlike(ctx, bob, id); !errors.Is(err, ErrCounterConflict) {
		t.Fatalf("unlike err = %v, want ErrCounterConflict", err)
	}
	if n := f.count(t, &model.Like{}, "diary_id = ?", id); n != 1 {
		t.Fatalf("like row should survive the rolled back unlike, rows = %d", n)
	}
}

func TestFavoriteLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.publicDiary(t, alice, "Patagonia")

	res, err := f.favorites.Favorite(ctx, bob, id)
	if err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if !res.Favorited || res.FavoriteCount != 1 {
		t.Fatalf("favorite result = %+v", res)
	}
	if _, err := f.favorites.Favorite(ctx, bob, id); !errors.Is(err, ErrAlreadyFavorited) {
		t.Fatalf("duplicate favorite err = %v", err)
	}

	status, err := f.favorites.GetStatus(ctx, bob, id)
	if err != nil || !status.Favorited {
		t.Fatalf("status = %+v, err = %v", status, err)
	}
	list, err := f.favorites.ListByUser(ctx, bob, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || len(list.Favorites) != 1 || list.Favorites[0].Diary == nil {
		t.Fatalf("favorites list = %+v", list)
	}

	res, err = f.favorites.Unfavorite(ctx, bob, id)
	if err != nil {
		t.Fatalf("unfavorite: %v", err)
	}
	if res.Favorited || res.FavoriteCount != 0 {
		t.Fatalf("unfavorite result = %+v", res)
	}
	if _, err := f.favorites.Unfavorite(ctx, bob, id); !errors.Is(err, ErrNotFavorited) {
		t.Fatalf("second unfavorite err = %v", err)
	}
}

func TestRecordViewCountsDiaryAndTagsAndDedupesHistoryPerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.publicDiary(t, alice, "Hokkaido snow", "japan", "winter")
	today := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	f.track.now = func() time.Time { return today }

	for i := 0; i < 3; i++ {
		if err := f.track.RecordView(ctx, bob, id); err != nil {
			t.Fatalf("view %d: %v", i, err)
		}
	}
	if err := f.track.RecordView(ctx, 0, id); err != nil {
		t.Fatalf("anonymous view: %v", err)
	}

	d := f.diary(t, id)
	if d.ViewCount != 4 {
		t.Fatalf("view_count = %d, want 4", d.ViewCount)
	}
	for _, tag := range d.Tags {
		viewCount, err := repository.ReadCounter(ctx, f.db, repository.TableTags, tag.ID, repository.ColViewCount)
		if err != nil {
			t.Fatalf("read tag counter: %v", err)
		}
		if viewCount != 4 {
			t.Fatalf("tag %s view_count = %d, want 4", tag.Name, viewCount)
		}
	}

	rows, err := f.track.viewRepo.ListByDay(ctx, bob, id, "2026-03-14")
	if err != nil {
		t.Fatalf("list by day: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("view history rows for today = %d, want 1", len(rows))
	}

	history, err := f.track.ListViewHistory(ctx, bob, 1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Total != 1 || history.Items[0].Diary == nil || history.Items[0].Diary.ID != id {
		t.Fatalf("history = %+v", history)
	}
}

func TestShareIncrementsAndRejectsPrivateDiary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.publicDiary(t, alice, "Iceland ring road")

	res, err := f.track.Share(ctx, id)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if res.ShareCount != 1 {
		t.Fatalf("share_count = %d", res.ShareCount)
	}

	if _, err := f.diaries.SetPublished(ctx, asUser(alice), id, false); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if _, err := f.track.Share(ctx, id); !errors.Is(err, ErrDiaryNotFound) {
		t.Fatalf("share unpublished err = %v", err)
	}
}

func TestConcurrentLikeUnlikeKeepsCounterInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.publicDiary(t, alice, "Busy diary")

	const fans = 8
	users := make([]model.User, 0, fans)
	for i := 0; i < fans; i++ {
		users = append(users, model.User{ID: int64(100 + i), Name: fmt.Sprintf("fan%d", i), Role: authz.RoleUser})
	}
	if err := f.db.Create(&users).Error; err != nil {
		t.Fatalf("seed fans: %v", err)
	}

	// 每个用户同时点赞两次，只能成功一次
	var liked, dupLikes int64
	var wg sync.WaitGroup
	for _, u := range users {
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(uid int64) {
				defer wg.Done()
				_, err := f.likes.Like(ctx, uid, id)
				switch {
				case err == nil:
					atomic.AddInt64(&liked, 1)
				case errors.Is(err, ErrAlreadyLiked):
					atomic.AddInt64(&dupLikes, 1)
				default:
					t.Errorf("like by %d: %v", uid, err)
				}
			}(u.ID)
		}
	}
	wg.Wait()
	if liked != fans || dupLikes != fans {
		t.Fatalf("likes ok=%d dup=%d, want %d each", liked, dupLikes, fans)
	}
	if d := f.diary(t, id); d.LikeCount != fans {
		t.Fatalf("like_count = %d, want %d", d.LikeCount, fans)
	}

	// 一半用户同时取消两次
	var unliked, notLiked int64
	for _, u := range users[:fans/2] {
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(uid int64) {
				defer wg.Done()
				_, err := f.likes.Unlike(ctx, uid, id)
				switch {
				case err == nil:
					atomic.AddInt64(&unliked, 1)
				case errors.Is(err, ErrNotLiked):
					atomic.AddInt64(&notLiked, 1)
				default:
					t.Errorf("unlike by %d: %v", uid, err)
				}
			}(u.ID)
		}
	}
	wg.Wait()
	if unliked != fans/2 || notLiked != fans/2 {
		t.Fatalf("unlikes ok=%d missing=%d, want %d each", unliked, notLiked, fans/2)
	}

	d := f.diary(t, id)
	rows := f.count(t, &model.Like{}, "diary_id = ?", id)
	if d.LikeCount != rows || rows != fans/2 {
		t.Fatalf("like_count = %d, like rows = %d, want %d", d.LikeCount, rows, fans/2)
	}
}

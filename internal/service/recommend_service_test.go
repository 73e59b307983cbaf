package service

import (
	"context"
	"testing"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/authz"
)

func listIDs(list *dto.DiaryListData) []string {
	out := make([]string, 0, len(list.Diaries))
	for _, d := range list.Diaries {
		out = append(out, d.ID)
	}
	return out
}

// recommendWorld 四篇公开日记：bob 点赞了 kyoto，carol 点赞了 cusco
type recommendWorld struct {
	kyoto, osaka, cusco, plain string
}

func seedRecommend(t *testing.T, f *fixture) recommendWorld {
	t.Helper()
	ctx := context.Background()
	w := recommendWorld{
		kyoto: f.publicDiary(t, alice, "Kyoto", "japan"),
		osaka: f.publicDiary(t, alice, "Osaka", "japan"),
		cusco: f.publicDiary(t, carol, "Cusco", "peru"),
		plain: f.publicDiary(t, carol, "Notes"),
	}
	if _, err := f.likes.Like(ctx, bob, w.kyoto); err != nil {
		t.Fatalf("like kyoto: %v", err)
	}
	if _, err := f.likes.Like(ctx, carol, w.cusco); err != nil {
		t.Fatalf("like cusco: %v", err)
	}
	return w
}

func TestRecommendOrdersAffinityPopularThenLiked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := seedRecommend(t, f)

	list, err := f.recommend.Recommend(ctx, asUser(bob), 1, 10)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	got := listIDs(list)
	want := []string{w.osaka, w.cusco, w.plain, w.kyoto}
	if len(got) != len(want) {
		t.Fatalf("recommend ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recommend ids = %v, want %v", got, want)
		}
	}
	if list.Total != 4 {
		t.Fatalf("total = %d, want 4", list.Total)
	}
	if _, ok := f.cache.data[bob]; !ok {
		t.Fatalf("affinity tags should be cached after a miss")
	}

	second, err := f.recommend.Recommend(ctx, asUser(bob), 2, 3)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if p := listIDs(second); len(p) != 1 || p[0] != w.kyoto {
		t.Fatalf("page 2 = %v, want only the liked diary", p)
	}
}

func TestRecommendAnonymousGetsPopularOnly(t *testing.T) {
	f := newFixture(t)
	w := seedRecommend(t, f)

	list, err := f.recommend.Recommend(context.Background(), authz.Anonymous, 1, 10)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if list.Total != 4 || len(list.Diaries) != 4 {
		t.Fatalf("anonymous feed = %+v", list)
	}
	last := list.Diaries[len(list.Diaries)-1].ID
	if last == w.kyoto || last == w.cusco {
		t.Fatalf("liked diaries rank above unliked ones for anonymous viewers, last = %s", last)
	}
}

func TestRecommendFallsBackWhenCacheFails(t *testing.T) {
	f := newFixture(t)
	w := seedRecommend(t, f)
	f.cache.failGet = true

	list, err := f.recommend.Recommend(context.Background(), asUser(bob), 1, 1)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got := listIDs(list); len(got) != 1 || got[0] != w.osaka {
		t.Fatalf("first recommendation = %v, want the affinity diary", got)
	}
}

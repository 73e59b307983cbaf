package service

import (
	"context"
	"errors"
	"testing"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/infra/kafka"
	"trailnote-go/internal/model"
)

func TestApproveShadowMergesIntoCanonical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.diaries.Create(ctx, asUser(alice), &dto.DiaryCreateRequest{
		Title:     "Alps",
		Content:   "day one",
		Images:    []string{"old.jpg", "keep.jpg"},
		Tags:      []string{"mountains"},
		Published: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.ID
	if err := f.reviews.Review(ctx, asReviewer(), id, model.DiaryStatusApproved, ""); err != nil {
		t.Fatalf("approve canonical: %v", err)
	}
	if _, err := f.likes.Like(ctx, bob, id); err != nil {
		t.Fatalf("like: %v", err)
	}

	edit, err := f.diaries.SubmitEdit(ctx, asUser(alice), id, &dto.DiaryEditRequest{
		Title:  strPtr("Alps, revised"),
		Images: &[]string{"keep.jpg", "new.jpg"},
		Tags:   &[]string{"mountains", "snow"},
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if err := f.reviews.Review(ctx, asReviewer(), edit.ID, model.DiaryStatusApproved, ""); err != nil {
		t.Fatalf("approve shadow: %v", err)
	}

	canonical := f.diary(t, id)
	if canonical.Title != "Alps, revised" || canonical.Status != model.DiaryStatusApproved {
		t.Fatalf("canonical after merge = %+v", canonical)
	}
	if len(canonical.Images) != 2 || canonical.Images[1] != "new.jpg" {
		t.Fatalf("canonical images = %v", canonical.Images)
	}
	if len(canonical.Tags) != 2 {
		t.Fatalf("canonical tags = %+v", canonical.Tags)
	}
	if canonical.LikeCount != 1 || canonical.Slug != created.Slug {
		t.Fatalf("merge must keep counters and slug: %+v", canonical)
	}
	if canonical.ReviewedByID == nil || *canonical.ReviewedByID != reviewer {
		t.Fatalf("reviewed_by = %v", canonical.ReviewedByID)
	}
	if n := f.count(t, &model.Diary{}, "id = ?", edit.ID); n != 0 {
		t.Fatalf("shadow should be deleted after merge")
	}
	if n := f.count(t, &model.DiaryTag{}, "diary_id = ?", edit.ID); n != 0 {
		t.Fatalf("shadow tag links left: %d", n)
	}

	last := f.publisher.events[len(f.publisher.events)-1]
	if last.Type != kafka.EventDiaryApproved || last.DiaryID != id {
		t.Fatalf("approve event = %+v, want approved for canonical", last)
	}
	if len(last.RemovedMedia) != 1 || last.RemovedMedia[0] != "old.jpg" {
		t.Fatalf("removed media = %v", last.RemovedMedia)
	}

	if err := f.reviews.Review(ctx, asReviewer(), edit.ID, model.DiaryStatusApproved, ""); !errors.Is(err, ErrDiaryNotFound) {
		t.Fatalf("re-approving merged shadow err = %v", err)
	}
}

func TestRejectShadowKeepsCanonicalAndResubmitClearsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.publicDiary(t, alice, "Sahara")

	edit, err := f.diaries.SubmitEdit(ctx, asUser(alice), id, &dto.DiaryEditRequest{Title: strPtr("Sahara!!!")})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if err := f.reviews.Review(ctx, asReviewer(), edit.ID, model.DiaryStatusRejected, "  "); !errors.Is(err, ErrRejectReasonRequired) {
		t.Fatalf("reject without reason err = %v", err)
	}
	if err := f.reviews.Review(ctx, asReviewer(), edit.ID, model.DiaryStatusRejected, "too loud"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	shadow := f.diary(t, edit.ID)
	if shadow.Status != model.DiaryStatusRejected || shadow.RejectedReason == nil || *shadow.RejectedReason != "too loud" {
		t.Fatalf("rejected shadow = %+v", shadow)
	}
	if canonical := f.diary(t, id); canonical.Title != "Sahara" || !canonical.IsPublic() {
		t.Fatalf("canonical changed by rejection: %+v", canonical)
	}

	if _, err := f.diaries.SubmitEdit(ctx, asUser(alice), id, &dto.DiaryEditRequest{Title: strPtr("Sahara")}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	shadow = f.diary(t, edit.ID)
	if shadow.Status != model.DiaryStatusPending || shadow.RejectedReason != nil || shadow.ReviewedAt != nil {
		t.Fatalf("resubmitted shadow = %+v", shadow)
	}
}

func TestReviewValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.diaries.Create(ctx, asUser(alice), &dto.DiaryCreateRequest{Title: "Queue", Content: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.reviews.Review(ctx, asUser(bob), created.ID, model.DiaryStatusApproved, ""); !errors.Is(err, ErrReviewNoPermission) {
		t.Fatalf("user review err = %v", err)
	}
	if err := f.reviews.Review(ctx, asReviewer(), created.ID, model.DiaryStatusPending, ""); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("pending decision err = %v", err)
	}
	if err := f.reviews.Review(ctx, asReviewer(), "missing", model.DiaryStatusApproved, ""); !errors.Is(err, ErrDiaryNotFound) {
		t.Fatalf("missing diary err = %v", err)
	}
}

func TestReviewList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publicDiary(t, alice, "Approved one")
	if _, err := f.diaries.Create(ctx, asUser(bob), &dto.DiaryCreateRequest{Title: "Waiting", Content: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := f.reviews.ReviewList(ctx, asReviewer(), &dto.ReviewListQuery{Status: model.DiaryStatusPending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || list.Diaries[0].Title != "Waiting" {
		t.Fatalf("pending queue = %+v", list)
	}

	all, err := f.reviews.ReviewList(ctx, asReviewer(), &dto.ReviewListQuery{Sort: "createdAt", Order: "asc"})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Total != 2 || all.Diaries[0].Title != "Approved one" {
		t.Fatalf("all queue = %+v", all)
	}

	if _, err := f.reviews.ReviewList(ctx, asReviewer(), &dto.ReviewListQuery{Sort: "title"}); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("bad sort err = %v", err)
	}
	if _, err := f.reviews.ReviewList(ctx, asReviewer(), &dto.ReviewListQuery{Order: "sideways"}); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("bad order err = %v", err)
	}
	if _, err := f.reviews.ReviewList(ctx, asReviewer(), &dto.ReviewListQuery{Status: "Published"}); !errors.Is(err, ErrInvalidStatusFilter) {
		t.Fatalf("bad status err = %v", err)
	}
	if _, err := f.reviews.ReviewList(ctx, asUser(alice), &dto.ReviewListQuery{}); !errors.Is(err, ErrReviewNoPermission) {
		t.Fatalf("user list err = %v", err)
	}
}

func TestApproveShadowWithNewTagsRefreshesLikerAffinity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kyoto := f.publicDiary(t, alice, "Kyoto", "japan")
	nara := f.publicDiary(t, alice, "Nara", "kansai")
	lima := f.publicDiary(t, carol, "Lima", "peru")
	if _, err := f.likes.Like(ctx, bob, kyoto); err != nil {
		t.Fatalf("like kyoto: %v", err)
	}
	if _, err := f.likes.Like(ctx, carol, lima); err != nil {
		t.Fatalf("like lima: %v", err)
	}

	before, err := f.recommend.Recommend(ctx, asUser(bob), 1, 1)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got := listIDs(before); len(got) != 1 || got[0] != lima {
		t.Fatalf("before edit = %v, want the popular diary", got)
	}
	if _, ok := f.cache.data[bob]; !ok {
		t.Fatalf("affinity tags should be cached")
	}

	edit, err := f.diaries.SubmitEdit(ctx, asUser(alice), kyoto, &dto.DiaryEditRequest{Tags: &[]string{"kansai"}})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := f.reviews.Review(ctx, asReviewer(), edit.ID, model.DiaryStatusApproved, ""); err != nil {
		t.Fatalf("approve shadow: %v", err)
	}
	if _, ok := f.cache.data[bob]; ok {
		t.Fatalf("liker affinity cache should be dropped after tags change")
	}

	after, err := f.recommend.Recommend(ctx, asUser(bob), 1, 1)
	if err != nil {
		t.Fatalf("recommend after merge: %v", err)
	}
	if got := listIDs(after); len(got) != 1 || got[0] != nara {
		t.Fatalf("after merge = %v, want %s", got, nara)
	}
}

func TestApproveShadowWithSameTagsKeepsAffinity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kyoto := f.publicDiary(t, alice, "Kyoto", "japan")
	if _, err := f.likes.Like(ctx, bob, kyoto); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := f.recommend.Recommend(ctx, asUser(bob), 1, 5); err != nil {
		t.Fatalf("recommend: %v", err)
	}

	edit, err := f.diaries.SubmitEdit(ctx, asUser(alice), kyoto, &dto.DiaryEditRequest{Title: strPtr("Kyoto in autumn")})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := f.reviews.Review(ctx, asReviewer(), edit.ID, model.DiaryStatusApproved, ""); err != nil {
		t.Fatalf("approve shadow: %v", err)
	}
	if _, ok := f.cache.data[bob]; !ok {
		t.Fatalf("title-only merge should not drop the affinity cache")
	}
}

package service

import (
	"errors"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/model"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage 页码从 1 开始，pageSize 限制在 [1, max]
func normalizePage(page, pageSize, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > max {
		pageSize = max
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func toDiaryInfo(d *model.Diary) *dto.DiaryInfo {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	tags := make([]dto.TagInfo, 0, len(d.Tags))
	for _, t := range d.Tags {
		tags = append(tags, dto.TagInfo{ID: t.ID, Name: t.Name})
	}

	info := &dto.DiaryInfo{
		ID:             d.ID,
		AuthorID:       d.AuthorID,
		ParentID:       d.ParentID,
		Title:          d.Title,
		Content:        d.Content,
		Slug:           d.Slug,
		Images:         images,
		Video:          d.Video,
		Thumbnail:      d.Thumbnail,
		Published:      d.Published,
		PublishedAt:    d.PublishedAt,
		Status:         d.Status,
		RejectedReason: d.RejectedReason,
		ReviewedByID:   d.ReviewedByID,
		ReviewedAt:     d.ReviewedAt,
		ViewCount:      d.ViewCount,
		LikeCount:      d.LikeCount,
		FavoriteCount:  d.FavoriteCount,
		CommentCount:   d.CommentCount,
		ShareCount:     d.ShareCount,
		Tags:           tags,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.Author.ID != 0 {
		info.Author = &dto.AuthorBrief{
			ID:     d.Author.ID,
			Name:   d.Author.Name,
			Avatar: d.Author.Avatar,
		}
	}
	return info
}

func buildDiaryListData(diaries []model.Diary, total int64, page, pageSize int) *dto.DiaryListData {
	items := make([]dto.DiaryInfo, 0, len(diaries))
	for i := range diaries {
		items = append(items, *toDiaryInfo(&diaries[i]))
	}
	return &dto.DiaryListData{
		Diaries:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
}

func diaryKey(d model.Diary) string {
	return d.ID
}

// filterPublic 只保留公开主日记
func filterPublic(diaries []model.Diary) []model.Diary {
	out := diaries[:0]
	for i := range diaries {
		if diaries[i].IsPublic() {
			out = append(out, diaries[i])
		}
	}
	return out
}

package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"trailnote-go/internal/model"
	"trailnote-go/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ESDiaryDoc ES 日记文档结构（只收录已审核且已发布的主日记）
type ESDiaryDoc struct {
	ID            string   `json:"id"`
	AuthorID      int64    `json:"author_id"`
	AuthorName    string   `json:"author_name"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	PublishedAt   string   `json:"published_at,omitempty"`
	ViewCount     int64    `json:"view_count"`
	LikeCount     int64    `json:"like_count"`
	FavoriteCount int64    `json:"favorite_count"`
	CommentCount  int64    `json:"comment_count"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func diaryToESDoc(d *model.Diary) *ESDiaryDoc {
	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		tags = append(tags, t.Name)
	}
	doc := &ESDiaryDoc{
		ID:            d.ID,
		AuthorID:      d.AuthorID,
		AuthorName:    d.Author.Name,
		Slug:          d.Slug,
		Title:         d.Title,
		Content:       d.Content,
		Tags:          tags,
		ViewCount:     d.ViewCount,
		LikeCount:     d.LikeCount,
		FavoriteCount: d.FavoriteCount,
		CommentCount:  d.CommentCount,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.Format(time.RFC3339),
	}
	if d.PublishedAt != nil {
		doc.PublishedAt = d.PublishedAt.Format(time.RFC3339)
	}
	return doc
}

// SyncDiary 同步单篇日记到 ES（调用方需预加载 Author 与 Tags）
func SyncDiary(ctx context.Context, d *model.Diary) error {
	body, err := json.Marshal(diaryToESDoc(d))
	if err != nil {
		return err
	}

	resp, err := Index(ctx, DiaryIndex(), d.ID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Diary synced to ES", logger.DiaryID(d.ID))
	return nil
}

// DeleteDiary 从 ES 删除日记，文档不存在视为成功
func DeleteDiary(ctx context.Context, diaryID string) error {
	resp, err := Delete(ctx, DiaryIndex(), diaryID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BulkSyncDiaries 批量同步日记到 ES
func BulkSyncDiaries(ctx context.Context, diaries []model.Diary) (success, failed int, err error) {
	indexName := DiaryIndex()

	var buf strings.Builder
	for i := range diaries {
		docBody, err := json.Marshal(diaryToESDoc(&diaries[i]))
		if err != nil {
			failed++
			continue
		}

		buf.WriteString(fmt.Sprintf(`{"index":{"_index":"%s","_id":"%s"}}`, indexName, diaries[i].ID))
		buf.WriteString("\n")
		buf.Write(docBody)
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return 0, failed, nil
	}

	resp, err := Bulk(ctx, strings.NewReader(buf.String()))
	if err != nil {
		return 0, len(diaries), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(diaries), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return len(diaries) - failed, failed, nil
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}

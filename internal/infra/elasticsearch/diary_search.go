package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// DiaryQuery 日记搜索条件
type DiaryQuery struct {
	Keyword string
	Tag     string
	Sort    string // ES 字段名，如 published_at / like_count
	Order   string // asc / desc
	From    int
	Size    int
}

// DiarySearcher 基于 ES 的日记搜索，供 service 层注入
type DiarySearcher struct{}

func NewDiarySearcher() *DiarySearcher {
	return &DiarySearcher{}
}

// SearchDiaries 返回命中的日记 ID（按排序）和总数
func (s *DiarySearcher) SearchDiaries(ctx context.Context, q DiaryQuery) ([]string, int64, error) {
	if !Ready() {
		return nil, 0, fmt.Errorf("elasticsearch client not initialized")
	}

	body, err := json.Marshal(buildDiaryQuery(q))
	if err != nil {
		return nil, 0, err
	}

	resp, err := Search(ctx, DiaryIndex(), bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("search failed: %s", resp.String())
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(result.Hits.Hits))
	for _, h := range result.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, result.Hits.Total.Value, nil
}

func buildDiaryQuery(q DiaryQuery) map[string]interface{} {
	var must []interface{}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  kw,
				"fields": []string{"title^2", "content"},
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if tag := strings.TrimSpace(q.Tag); tag != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"tags": tag}},
		}
	}

	sortField := q.Sort
	if sortField == "" {
		sortField = "published_at"
	}
	order := "desc"
	if q.Order == "asc" {
		order = "asc"
	}

	return map[string]interface{}{
		"from":  q.From,
		"size":  q.Size,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{sortField: map[string]interface{}{"order": order}},
			map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
		},
		"track_total_hits": true,
	}
}

package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"trailnote-go/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	analyzerStandard = "standard"
	analyzerIK       = "ik"
)

type object = map[string]interface{}

// textAnalyzers 返回 (索引分词器, 搜索分词器)
func textAnalyzers(name string) (string, string) {
	if name == analyzerIK {
		return "ik_max_word", "ik_smart"
	}
	return analyzerStandard, analyzerStandard
}

// diariesMapping 生成 diaries 索引的 settings 与 mapping
func diariesMapping(analyzerName string) ([]byte, error) {
	indexAnalyzer, searchAnalyzer := textAnalyzers(analyzerName)
	text := func(extra object) object {
		field := object{"type": "text", "analyzer": indexAnalyzer, "search_analyzer": searchAnalyzer}
		for k, v := range extra {
			field[k] = v
		}
		return field
	}
	date := object{"type": "date", "format": "strict_date_optional_time||epoch_millis"}
	long := object{"type": "long"}
	keyword := object{"type": "keyword"}

	return json.Marshal(object{
		"settings": object{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": object{
			"dynamic": "strict",
			"properties": object{
				"id":          keyword,
				"author_id":   long,
				"author_name": keyword,
				"slug":        keyword,
				"title": text(object{
					"fields": object{"keyword": object{"type": "keyword", "ignore_above": 200}},
				}),
				"content":        text(nil),
				"tags":           keyword,
				"published_at":   date,
				"view_count":     long,
				"like_count":     long,
				"favorite_count": long,
				"comment_count":  long,
				"created_at":     date,
				"updated_at":     date,
			},
		},
	})
}

// EnsureDiariesIndex 索引不存在时按当前分词配置创建
func EnsureDiariesIndex(ctx context.Context) error {
	if client == nil {
		return errNotReady
	}
	index := DiaryIndex()

	exists, err := client.Indices.Exists([]string{index}, client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		logger.Info("Elasticsearch diaries index already exists", zap.String("index", index))
		return nil
	}

	body, err := diariesMapping(analyzer)
	if err != nil {
		return fmt.Errorf("build mapping: %w", err)
	}
	resp, err := client.Indices.Create(index,
		client.Indices.Create.WithContext(ctx),
		client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch diaries index created", zap.String("index", index), zap.String("analyzer", analyzer))
	return nil
}

// InitIndexes 启动时确保索引存在
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return EnsureDiariesIndex(ctx)
}

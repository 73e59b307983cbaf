package elasticsearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trailnote-go/internal/config"
	"trailnote-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

var (
	client     *elasticsearch.Client
	diaryIndex = "diaries"
	analyzer   = analyzerStandard
)

var errNotReady = fmt.Errorf("elasticsearch client not initialized")

// normalizeHosts 补全协议头并去掉空项
func normalizeHosts(raw []string) []string {
	hosts := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
			h = "http://" + h
		}
		hosts = append(hosts, h)
	}
	return hosts
}

// Init 连接 Elasticsearch
func Init(cfg *config.ElasticsearchConfig) error {
	hosts := normalizeHosts(cfg.Hosts)
	if len(hosts) == 0 {
		return fmt.Errorf("elasticsearch hosts is empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     hosts,
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		MaxRetries:    2,
		RetryBackoff:  func(i int) time.Duration { return time.Duration(i) * 200 * time.Millisecond },
	})
	if err != nil {
		return fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", resp.Status())
	}

	client = es
	diaryIndex = cfg.DiariesIndex()
	analyzer = cfg.Analyzer
	logger.Info("Elasticsearch connected",
		zap.Strings("hosts", hosts),
		zap.String("diary_index", diaryIndex),
		zap.String("analyzer", analyzer),
	)
	return nil
}

// Ready 客户端是否可用
func Ready() bool {
	return client != nil
}

// DiaryIndex 日记索引名
func DiaryIndex() string {
	return diaryIndex
}

// Search 执行搜索
func Search(ctx context.Context, index string, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotReady
	}
	return client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(body),
	)
}

// Index 写入（覆盖）单个文档
func Index(ctx context.Context, index, id string, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotReady
	}
	return client.Index(index, body,
		client.Index.WithContext(ctx),
		client.Index.WithDocumentID(id),
	)
}

// Delete 删除单个文档
func Delete(ctx context.Context, index, id string) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotReady
	}
	return client.Delete(index, id, client.Delete.WithContext(ctx))
}

// Bulk 批量写入
func Bulk(ctx context.Context, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotReady
	}
	return client.Bulk(body, client.Bulk.WithContext(ctx))
}

func Close() error {
	client = nil
	logger.Info("Elasticsearch client closed")
	return nil
}

package service

import (
	"context"
	"strings"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/config"
	"trailnote-go/internal/infra/elasticsearch"
	"trailnote-go/internal/metrics"
	"trailnote-go/internal/recommend"
	"trailnote-go/internal/repository"
	"trailnote-go/pkg/logger"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// 搜索排序字段（接口参数 → ES 字段 / 数据库列，两边同名）
var searchSortFields = map[string]string{
	"publishedAt":   "published_at",
	"viewCount":     "view_count",
	"likeCount":     "like_count",
	"favoriteCount": "favorite_count",
	"commentCount":  "comment_count",
}

// DiarySearcher 搜索引擎查询（生产环境为 Elasticsearch）
type DiarySearcher interface {
	SearchDiaries(ctx context.Context, q elasticsearch.DiaryQuery) ([]string, int64, error)
}

type searchHits struct {
	ids   []string
	total int64
}

// SearchService 日记搜索：优先 ES（带熔断），失败或熔断时回退到数据库
type SearchService struct {
	diaryRepo *repository.DiaryRepository
	searcher  DiarySearcher
	breaker   *gobreaker.CircuitBreaker[searchHits]
}

func NewSearchService(diaryRepo *repository.DiaryRepository, searcher DiarySearcher, cfg config.SearchConfig) *SearchService {
	threshold := cfg.BreakerFailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        "elasticsearch",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SearchBreakerState.Set(float64(to))
			logger.Warn("Search circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &SearchService{
		diaryRepo: diaryRepo,
		searcher:  searcher,
		breaker:   gobreaker.NewCircuitBreaker[searchHits](settings),
	}
}

// Search 搜索已审核且已发布的主日记
func (s *SearchService) Search(ctx context.Context, req *dto.SearchDiaryRequest) (*dto.SearchDiaryData, error) {
	sort := "published_at"
	if req.Sort != "" {
		field, ok := searchSortFields[req.Sort]
		if !ok {
			return nil, ErrInvalidSort
		}
		sort = field
	}
	order := strings.ToLower(req.Order)
	switch order {
	case "":
		order = "desc"
	case "asc", "desc":
	default:
		return nil, ErrInvalidSort
	}

	page, pageSize := normalizePage(req.Page, req.PageSize, maxPageSize)

	if s.searcher != nil {
		data, err := s.searchFromES(ctx, req, sort, order, page, pageSize)
		if err == nil {
			metrics.SearchRequestsTotal.WithLabelValues("es").Inc()
			return data, nil
		}
		logger.Warn("ES search failed, falling back to database", zap.Error(err))
	}

	metrics.SearchRequestsTotal.WithLabelValues("db_fallback").Inc()
	return s.searchFromDB(ctx, req, sort, order, page, pageSize)
}

func (s *SearchService) searchFromES(ctx context.Context, req *dto.SearchDiaryRequest, sort, order string, page, pageSize int) (*dto.SearchDiaryData, error) {
	hits, err := s.breaker.Execute(func() (searchHits, error) {
		ids, total, err := s.searcher.SearchDiaries(ctx, elasticsearch.DiaryQuery{
			Keyword: req.Q,
			Tag:     req.Tag,
			Sort:    sort,
			Order:   order,
			From:    (page - 1) * pageSize,
			Size:    pageSize,
		})
		return searchHits{ids: ids, total: total}, err
	})
	if err != nil {
		return nil, err
	}

	// 索引可能滞后于数据库，以数据库中的公开状态为准
	diaries, err := s.diaryRepo.ListByIDs(ctx, hits.ids)
	if err != nil {
		return nil, err
	}
	diaries = recommend.Reorder(hits.ids, filterPublic(diaries), diaryKey)

	list := buildDiaryListData(diaries, hits.total, page, pageSize)
	return &dto.SearchDiaryData{
		Diaries:    list.Diaries,
		Total:      list.Total,
		Page:       list.Page,
		PageSize:   list.PageSize,
		TotalPages: list.TotalPages,
		Source:     "es",
	}, nil
}

func (s *SearchService) searchFromDB(ctx context.Context, req *dto.SearchDiaryRequest, sort, order string, page, pageSize int) (*dto.SearchDiaryData, error) {
	diaries, total, err := s.diaryRepo.SearchPublic(ctx, req.Q, req.Tag, sort, order == "desc", (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	list := buildDiaryListData(diaries, total, page, pageSize)
	return &dto.SearchDiaryData{
		Diaries:    list.Diaries,
		Total:      list.Total,
		Page:       list.Page,
		PageSize:   list.PageSize,
		TotalPages: list.TotalPages,
		Source:     "db",
	}, nil
}

// ReindexAll 分批把全部公开日记写入搜索索引
func (s *SearchService) ReindexAll(ctx context.Context, batchSize int) (success, failed int, err error) {
	if batchSize <= 0 {
		batchSize = 200
	}
	afterID := ""
	for {
		diaries, err := s.diaryRepo.ListPublicForIndex(ctx, afterID, batchSize)
		if err != nil {
			return success, failed, err
		}
		if len(diaries) == 0 {
			return success, failed, nil
		}
		ok, bad, err := elasticsearch.BulkSyncDiaries(ctx, diaries)
		success += ok
		failed += bad
		if err != nil {
			return success, failed, err
		}
		afterID = diaries[len(diaries)-1].ID
	}
}

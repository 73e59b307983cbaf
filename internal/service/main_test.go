package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/infra/database"
	"trailnote-go/internal/infra/kafka"
	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq int64

type createReq = dto.DiaryCreateRequest

// 测试用户
const (
	alice    int64 = 1
	bob      int64 = 2
	carol    int64 = 3
	reviewer int64 = 10
	admin    int64 = 11
)

func asUser(id int64) authz.Principal { return authz.Principal{ID: id, Role: authz.RoleUser} }

func asReviewer() authz.Principal { return authz.Principal{ID: reviewer, Role: authz.RoleReviewer} }

func asAdmin() authz.Principal { return authz.Principal{ID: admin, Role: authz.RoleAdmin} }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:trailnote-%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := []model.User{
		{ID: alice, Name: "alice", Role: authz.RoleUser},
		{ID: bob, Name: "bob", Role: authz.RoleUser},
		{ID: carol, Name: "carol", Role: authz.RoleUser},
		{ID: reviewer, Name: "rita", Role: authz.RoleReviewer},
		{ID: admin, Name: "adam", Role: authz.RoleAdmin},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}
	return db
}

// recordingPublisher 记录已发送的事件
type recordingPublisher struct {
	events []kafka.DiaryEvent
}

func (p *recordingPublisher) PublishDiaryEvent(_ context.Context, e *kafka.DiaryEvent) error {
	p.events = append(p.events, *e)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memoryCache 进程内的偏好标签缓存，并发测试下由 mu 保护
type memoryCache struct {
	mu          sync.Mutex
	data        map[int64][]string
	invalidated []int64
	failGet     bool
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[int64][]string{}} }

func (c *memoryCache) GetTagIDs(_ context.Context, userID int64) ([]string, bool, error) {
	if c.failGet {
		return nil, false, fmt.Errorf("redis: connection refused")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.data[userID]
	return ids, ok, nil
}

func (c *memoryCache) SetTagIDs(_ context.Context, userID int64, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[userID] = ids
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

// fixture 一套共享同一数据库的服务
type fixture struct {
	db        *gorm.DB
	tx        *Transactor
	diaryRepo *repository.DiaryRepository
	tagRepo   *repository.TagRepository
	publisher *recordingPublisher
	cache     *memoryCache

	diaries   *DiaryService
	reviews   *ReviewService
	likes     *LikeService
	favorites *FavoriteService
	comments  *CommentService
	relations *RelationService
	track     *TrackService
	recommend *RecommendService
	users     *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	tx := NewTransactor(db, 3, time.Millisecond)

	diaryRepo := repository.NewDiaryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	viewRepo := repository.NewViewHistoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	f := &fixture{
		db:        db,
		tx:        tx,
		diaryRepo: diaryRepo,
		tagRepo:   tagRepo,
		publisher: &recordingPublisher{},
		cache:     newMemoryCache(),
	}
	f.track = NewTrackService(tx, diaryRepo, viewRepo)
	f.diaries = NewDiaryService(DiaryDeps{
		Tx:           tx,
		DiaryRepo:    diaryRepo,
		Tags:         tagRepo,
		LikeRepo:     likeRepo,
		FavoriteRepo: favoriteRepo,
		CommentRepo:  commentRepo,
		ViewRepo:     viewRepo,
		Track:        f.track,
		Publisher:    f.publisher,
		Cache:        f.cache,
	})
	f.reviews = NewReviewService(tx, diaryRepo, likeRepo, nil, f.publisher, f.cache)
	f.likes = NewLikeService(tx, likeRepo, diaryRepo, f.cache)
	f.favorites = NewFavoriteService(tx, favoriteRepo, diaryRepo)
	f.comments = NewCommentService(tx, commentRepo, diaryRepo, nil)
	relationRepo := repository.NewRelationRepository(db)
	f.relations = NewRelationService(tx, relationRepo, userRepo)
	f.recommend = NewRecommendService(diaryRepo, tagRepo, f.cache, 50)
	f.users = NewUserService(userRepo, diaryRepo, relationRepo)
	return f
}

// publicDiary 创建、审核通过并发布一篇日记
func (f *fixture) publicDiary(t *testing.T, author int64, title string, tags ...string) string {
	t.Helper()
	ctx := context.Background()
	info, err := f.diaries.Create(ctx, asUser(author), &createReq{Title: title, Content: "<p>" + title + " notes</p>", Tags: tags, Published: true})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	if err := f.reviews.Review(ctx, asReviewer(), info.ID, model.DiaryStatusApproved, ""); err != nil {
		t.Fatalf("approve %q: %v", title, err)
	}
	return info.ID
}

func (f *fixture) diary(t *testing.T, id string) *model.Diary {
	t.Helper()
	d, err := f.diaryRepo.GetByIDWithTags(context.Background(), id)
	if err != nil {
		t.Fatalf("load diary %s: %v", id, err)
	}
	return d
}

func (f *fixture) count(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func strPtr(s string) *string { return &s }

package router

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trailnote-go/internal/api/handler"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/config"
	"trailnote-go/internal/infra/database"
	"trailnote-go/internal/model"
	"trailnote-go/internal/repository"
	"trailnote-go/internal/service"
	"trailnote-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const secret = "router-test"

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	users := []model.User{
		{ID: 1, Name: "alice", Role: authz.RoleUser},
		{ID: 2, Name: "bob", Role: authz.RoleUser},
		{ID: 10, Name: "rita", Role: authz.RoleReviewer},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	enforcer := authz.Default()
	tx := service.NewTransactor(db, 3, time.Millisecond)
	diaryRepo := repository.NewDiaryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	viewRepo := repository.NewViewHistoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	relationRepo := repository.NewRelationRepository(db)

	track := service.NewTrackService(tx, diaryRepo, viewRepo)
	diaries := service.NewDiaryService(service.DiaryDeps{
		Tx:           tx,
		DiaryRepo:    diaryRepo,
		Tags:         tagRepo,
		LikeRepo:     likeRepo,
		FavoriteRepo: favoriteRepo,
		CommentRepo:  commentRepo,
		ViewRepo:     viewRepo,
		Track:        track,
		Enforcer:     enforcer,
	})
	recommend := service.NewRecommendService(diaryRepo, tagRepo, nil, 50)

	r := gin.New()
	Setup(r, Handlers{
		Diary:    handler.NewDiaryHandler(diaries, track, recommend),
		Review:   handler.NewReviewHandler(service.NewReviewService(tx, diaryRepo, likeRepo, enforcer, nil, nil)),
		Like:     handler.NewLikeHandler(service.NewLikeService(tx, likeRepo, diaryRepo, nil)),
		Favorite: handler.NewFavoriteHandler(service.NewFavoriteService(tx, favoriteRepo, diaryRepo)),
		Comment:  handler.NewCommentHandler(service.NewCommentService(tx, commentRepo, diaryRepo, enforcer)),
		Relation: handler.NewRelationHandler(service.NewRelationService(tx, relationRepo, userRepo)),
		Search:   handler.NewSearchHandler(service.NewSearchService(diaryRepo, nil, config.SearchConfig{})),
		User:     handler.NewUserHandler(service.NewUserService(userRepo, diaryRepo, relationRepo)),
	}, secret, enforcer)
	return r
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Type string `json:"type"`
	} `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path string, userID int64, role string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		tok, err := utils.GenerateTokenWithSecret(secret, "trailnote", time.Hour, userID, role)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func TestDiaryLifecycleOverHTTP(t *testing.T) {
	r := newServer(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/diaries", 1, authz.RoleUser, map[string]interface{}{
		"title":     "Hanoi street food",
		"content":   "<p>pho</p>",
		"tags":      []string{"vietnam"},
		"published": true,
	})
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil || created.Status != model.DiaryStatusPending {
		t.Fatalf("created = %+v, err = %v", created, err)
	}
	path := "/api/v1/diaries/" + created.ID

	if code, _ := do(t, r, http.MethodGet, path, 0, "", nil); code != http.StatusNotFound {
		t.Fatalf("anonymous detail of pending diary = %d", code)
	}
	if code, env := do(t, r, http.MethodPut, "/api/v1/review/diaries/"+created.ID, 2, authz.RoleUser, map[string]string{"status": "Approved"}); code != http.StatusForbidden || env.Error.Type != "Forbidden" {
		t.Fatalf("user review = %d %+v", code, env.Error)
	}
	if code, _ := do(t, r, http.MethodPut, "/api/v1/review/diaries/"+created.ID, 10, authz.RoleReviewer, map[string]string{"status": "Approved"}); code != http.StatusOK {
		t.Fatalf("review = %d", code)
	}
	if code, _ := do(t, r, http.MethodGet, path, 0, "", nil); code != http.StatusOK {
		t.Fatalf("anonymous detail = %d", code)
	}

	if code, _ := do(t, r, http.MethodPost, path+"/like", 0, "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous like = %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, path+"/like", 2, authz.RoleUser, nil); code != http.StatusOK {
		t.Fatalf("like = %d", code)
	}
	if code, env := do(t, r, http.MethodPost, path+"/like", 2, authz.RoleUser, nil); code != http.StatusConflict || env.Error.Type != "AlreadyDone" {
		t.Fatalf("duplicate like = %d %+v", code, env.Error)
	}

	code, env = do(t, r, http.MethodGet, "/api/v1/search/diaries?q=pho", 0, "", nil)
	if code != http.StatusOK {
		t.Fatalf("search = %d", code)
	}
	var found struct {
		Total  int64  `json:"total"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(env.Data, &found); err != nil || found.Total != 1 || found.Source != "db" {
		t.Fatalf("search = %+v, err = %v", found, err)
	}

	if code, _ := do(t, r, http.MethodGet, "/api/v1/search/diaries?sort=title", 0, "", nil); code != http.StatusBadRequest {
		t.Fatalf("bad sort = %d", code)
	}
}

func TestFollowOverHTTP(t *testing.T) {
	r := newServer(t)

	if code, _ := do(t, r, http.MethodPost, "/api/v1/users/2/follow", 0, "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous follow = %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/v1/users/2/follow", 1, authz.RoleUser, nil); code != http.StatusOK {
		t.Fatalf("follow = %d", code)
	}
	if code, env := do(t, r, http.MethodPost, "/api/v1/users/1/follow", 1, authz.RoleUser, nil); code != http.StatusBadRequest {
		t.Fatalf("self follow = %d %+v", code, env.Error)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/v1/users/0/follow", 1, authz.RoleUser, nil); code != http.StatusBadRequest {
		t.Fatalf("zero id = %d", code)
	}

	_, env := do(t, r, http.MethodGet, "/api/v1/users/2", 1, authz.RoleUser, nil)
	var profile struct {
		FollowerCount int64 `json:"follower_count"`
		Following     *bool `json:"following"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil || profile.FollowerCount != 1 || profile.Following == nil || !*profile.Following {
		t.Fatalf("profile = %+v, err = %v", profile, err)
	}

	code, env := do(t, r, http.MethodGet, "/api/v1/users/1/following", 0, "", nil)
	var list struct {
		Total int64 `json:"total"`
		Users []struct {
			ID           int64 `json:"id"`
			FollowedByMe bool  `json:"followed_by_me"`
		} `json:"users"`
	}
	if err := json.Unmarshal(env.Data, &list); code != http.StatusOK || err != nil || list.Total != 1 || list.Users[0].ID != 2 || list.Users[0].FollowedByMe {
		t.Fatalf("following = %d %+v, err = %v", code, list, err)
	}

	if code, _ := do(t, r, http.MethodDelete, "/api/v1/users/2/follow", 1, authz.RoleUser, nil); code != http.StatusOK {
		t.Fatalf("unfollow = %d", code)
	}
	if code, env := do(t, r, http.MethodDelete, "/api/v1/users/2/follow", 1, authz.RoleUser, nil); code != http.StatusConflict || env.Error.Type != "NotDone" {
		t.Fatalf("second unfollow = %d %+v", code, env.Error)
	}
}

func TestMalformedPageQueryIsRejected(t *testing.T) {
	r := newServer(t)

	for _, path := range []string{
		"/api/v1/users/1/followers?page=abc",
		"/api/v1/diaries/feed?page_size=ten",
		"/api/v1/me/likes?page=1.5",
		"/api/v1/me/mutual-follows?page=-",
	} {
		code, env := do(t, r, http.MethodGet, path, 1, authz.RoleUser, nil)
		if code != http.StatusBadRequest || env.Error.Type != "BadRequest" {
			t.Fatalf("GET %s = %d %+v, want 400", path, code, env.Error)
		}
	}

	// 越界但能解析的数值仍由 service 归一化
	if code, _ := do(t, r, http.MethodGet, "/api/v1/users/1/followers?page=0&page_size=9999", 0, "", nil); code != http.StatusOK {
		t.Fatalf("out-of-range page = %d, want 200", code)
	}
}

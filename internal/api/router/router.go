package router

import (
	"trailnote-go/internal/api/handler"
	"trailnote-go/internal/api/middleware"
	"trailnote-go/internal/authz"

	"github.com/gin-gonic/gin"
)

// Handlers 业务路由依赖的全部 handler
type Handlers struct {
	Diary    *handler.DiaryHandler
	Review   *handler.ReviewHandler
	Like     *handler.LikeHandler
	Favorite *handler.FavoriteHandler
	Comment  *handler.CommentHandler
	Relation *handler.RelationHandler
	Search   *handler.SearchHandler
	User     *handler.UserHandler
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h Handlers, jwtSecret string, enforcer *authz.Enforcer) {
	v1 := r.Group("/api/v1")

	optionalAuth := middleware.OptionalAuth(jwtSecret)
	authRequired := middleware.AuthRequired(jwtSecret)

	// --- 日记模块 ---
	diaries := v1.Group("/diaries")
	{
		// 公开接口（登录后个性化）
		public := diaries.Group("", optionalAuth)
		{
			public.GET("/feed", h.Diary.Recommend)
			public.GET("/:id", h.Diary.Detail)
			public.POST("/:id/share", h.Diary.Share)
			public.GET("/:id/comments", h.Comment.ListByDiary)
		}

		// 需要登录的接口
		diariesAuth := diaries.Group("", authRequired)
		{
			diariesAuth.POST("", h.Diary.Create)
			diariesAuth.PUT("/:id", h.Diary.Edit)
			diariesAuth.PUT("/:id/publish", h.Diary.SetPublished)
			diariesAuth.DELETE("/:id", h.Diary.Delete)

			diariesAuth.POST("/:id/like", h.Like.Like)
			diariesAuth.DELETE("/:id/like", h.Like.Unlike)
			diariesAuth.GET("/:id/like", h.Like.GetStatus)

			diariesAuth.POST("/:id/favorite", h.Favorite.Favorite)
			diariesAuth.DELETE("/:id/favorite", h.Favorite.Unfavorite)
			diariesAuth.GET("/:id/favorite", h.Favorite.GetStatus)

			diariesAuth.POST("/:id/comments", h.Comment.Create)
		}
	}

	// --- 审核模块 ---
	review := v1.Group("/review", authRequired, middleware.Require(enforcer, authz.ObjDiary, authz.ActReviewList))
	{
		review.GET("/diaries", h.Review.List)
		review.PUT("/diaries/:id", h.Review.Review)
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments")
	{
		comments.GET("/:id/replies", optionalAuth, h.Comment.ListReplies)

		commentsAuth := comments.Group("", authRequired)
		{
			commentsAuth.DELETE("/:id", h.Comment.Delete)
			commentsAuth.POST("/:id/like", h.Comment.Like)
			commentsAuth.DELETE("/:id/like", h.Comment.Unlike)
		}
	}

	// --- 批量状态 ---
	v1.POST("/likes/status", authRequired, h.Like.BatchStatus)
	v1.POST("/favorites/status", authRequired, h.Favorite.BatchStatus)

	// --- 我的 ---
	me := v1.Group("/me", authRequired)
	{
		me.GET("/likes", h.Like.ListMine)
		me.GET("/favorites", h.Favorite.ListMine)
		me.GET("/views", h.Diary.ViewHistory)
		me.GET("/mutual-follows", h.Relation.Mutual)
	}

	// --- 用户与关注 ---
	users := v1.Group("/users")
	{
		users.GET("/me", authRequired, h.User.GetMe)
		users.GET("/:id", optionalAuth, h.User.GetByID)
		users.GET("/:id/diaries", optionalAuth, h.Diary.ListByAuthor)
		users.GET("/:id/following", optionalAuth, h.Relation.Following)
		users.GET("/:id/followers", optionalAuth, h.Relation.Followers)

		users.POST("/:id/follow", authRequired, h.Relation.Follow)
		users.DELETE("/:id/follow", authRequired, h.Relation.Unfollow)
		users.GET("/:id/follow", authRequired, h.Relation.Status)
	}
	v1.POST("/follows/status", authRequired, h.Relation.StatusBatch)

	// --- 搜索模块 ---
	v1.GET("/search/diaries", h.Search.SearchDiaries)
}

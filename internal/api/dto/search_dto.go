package dto

// SearchDiaryRequest 搜索请求参数
type SearchDiaryRequest struct {
	Q        string `form:"q"`
	Tag      string `form:"tag"`
	Sort     string `form:"sort"`  // publishedAt, viewCount, likeCount, favoriteCount, commentCount
	Order    string `form:"order"` // asc, desc
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SearchDiaryData 搜索结果
type SearchDiaryData struct {
	Diaries    []DiaryInfo `json:"diaries"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
	Source     string      `json:"source"` // es / db
}

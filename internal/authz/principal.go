package authz

// 用户角色
const (
	RoleUser     = "User"
	RoleReviewer = "Reviewer"
	RoleAdmin    = "Admin"
	RoleSuper    = "Super"
)

// 资源与动作
const (
	ObjDiary   = "diary"
	ObjComment = "comment"

	ActReview     = "review"
	ActReviewList = "review_list"
	ActReadAny    = "read_any"
	ActManage     = "manage"
	ActModerate   = "moderate"
)

// Principal 当前请求的调用者；ID 为 0 表示匿名访客
type Principal struct {
	ID   int64
	Role string
}

// Anonymous 匿名访客
var Anonymous = Principal{}

// IsAnonymous 是否未登录
func (p Principal) IsAnonymous() bool {
	return p.ID == 0
}

// ValidRole 角色是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleReviewer, RoleAdmin, RoleSuper:
		return true
	}
	return false
}

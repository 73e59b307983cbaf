package service

import (
	"errors"
	"fmt"
)

// 业务错误类别，调用方用 errors.Is 判断
var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation error")
	ErrAlreadyDone = errors.New("already done")
	ErrNotDone     = errors.New("not done")
	ErrConflict    = errors.New("conflict")
	ErrFatal       = errors.New("fatal")
)

// BizError 带类别的业务错误，Error() 返回面向用户的提示
type BizError struct {
	kind error
	msg  string
}

func newBizError(kind error, msg string) *BizError {
	return &BizError{kind: kind, msg: msg}
}

func (e *BizError) Error() string {
	return e.msg
}

func (e *BizError) Unwrap() error {
	return e.kind
}

// Fatal 把存储层错误升级为 ErrFatal，同时保留原始错误
func Fatal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrFatal, err)
}

// 日记
var (
	ErrDiaryNotFound        = newBizError(ErrNotFound, "日记不存在")
	ErrDiaryNoPermission    = newBizError(ErrForbidden, "没有权限操作该日记")
	ErrShadowNotOwner       = newBizError(ErrForbidden, "只有作者本人可以修改待审核的版本")
	ErrNoFieldsToUpdate     = newBizError(ErrValidation, "没有需要更新的字段")
	ErrEmptyTitle           = newBizError(ErrValidation, "标题不能为空")
	ErrEmptyContent         = newBizError(ErrValidation, "正文不能为空")
	ErrShadowNotPublishable = newBizError(ErrValidation, "待审核版本不能单独发布或删除")
	ErrLoginRequired        = newBizError(ErrForbidden, "请先登录")
)

// 审核
var (
	ErrReviewNoPermission   = newBizError(ErrForbidden, "没有审核权限")
	ErrInvalidDecision      = newBizError(ErrValidation, "审核结果只能是 Approved 或 Rejected")
	ErrRejectReasonRequired = newBizError(ErrValidation, "拒绝时必须填写理由")
	ErrCanonicalMissing     = newBizError(ErrConflict, "原日记已不存在")
	ErrShadowGone           = newBizError(ErrConflict, "待审核版本已被处理")
	ErrInvalidSort          = newBizError(ErrValidation, "不支持的排序字段")
	ErrInvalidStatusFilter  = newBizError(ErrValidation, "不支持的审核状态")
)

// 计数器账本
var (
	ErrAlreadyLiked        = newBizError(ErrAlreadyDone, "您已经点赞过该日记了")
	ErrNotLiked            = newBizError(ErrNotDone, "您尚未点赞该日记")
	ErrAlreadyFavorited    = newBizError(ErrAlreadyDone, "您已经收藏过该日记了")
	ErrNotFavorited        = newBizError(ErrNotDone, "您尚未收藏该日记")
	ErrCommentAlreadyLiked = newBizError(ErrAlreadyDone, "您已经点赞过该评论了")
	ErrCommentNotLiked     = newBizError(ErrNotDone, "您尚未点赞该评论")
	ErrCounterConflict     = newBizError(ErrConflict, "计数与记录不一致，请稍后重试")
)

// 评论
var (
	ErrCommentNotFound     = newBizError(ErrNotFound, "评论不存在")
	ErrCommentNoPermission = newBizError(ErrForbidden, "没有权限操作该评论")
	ErrParentNotFound      = newBizError(ErrNotFound, "父评论不存在")
	ErrParentDiaryMismatch = newBizError(ErrValidation, "父评论不属于该日记")
	ErrEmptyCommentContent = newBizError(ErrValidation, "评论内容不能为空")
)

// 用户与关注
var (
	ErrUserNotFound     = newBizError(ErrNotFound, "用户不存在")
	ErrCannotFollowSelf = newBizError(ErrValidation, "不能关注自己")
	ErrAlreadyFollowed  = newBizError(ErrAlreadyDone, "您已经关注过该用户了")
	ErrNotFollowed      = newBizError(ErrNotDone, "您尚未关注该用户")
)

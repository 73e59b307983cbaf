package authz

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"trailnote-go/internal/metrics"
	"trailnote-go/pkg/logger"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer 基于 Casbin RBAC 的角色权限判断
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer 使用内置模型与策略创建 Enforcer
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := loadEmbeddedPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: enforcer}, nil
}

var (
	defaultOnce     sync.Once
	defaultEnforcer *Enforcer
)

// Default 返回进程内共享的 Enforcer；内置策略加载失败属于编译期错误，直接 panic
func Default() *Enforcer {
	defaultOnce.Do(func() {
		e, err := NewEnforcer()
		if err != nil {
			panic(err)
		}
		defaultEnforcer = e
	})
	return defaultEnforcer
}

func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) == 4 {
				if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
				}
			}
		case "g":
			if len(parts) == 3 {
				if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
				}
			}
		}
	}
	return nil
}

// Can 判断调用者能否对资源执行动作；匿名用户一律拒绝
func (e *Enforcer) Can(p Principal, obj, act string) bool {
	if p.IsAnonymous() || !ValidRole(p.Role) {
		return false
	}

	allowed, err := e.enforcer.Enforce(p.Role, obj, act)
	if err != nil {
		logger.Error("Casbin enforce failed",
			logger.UserID(p.ID),
			zap.String("role", p.Role),
			zap.String("obj", obj),
			zap.String("act", act),
			zap.Error(err),
		)
		return false
	}

	decision := "allow"
	if !allowed {
		decision = "deny"
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(p.Role, obj, act, decision).Inc()
	return allowed
}

// CanActOnOwned 本人，或具备 act 权限的角色
func (e *Enforcer) CanActOnOwned(p Principal, ownerID int64, obj, act string) bool {
	if !p.IsAnonymous() && p.ID == ownerID {
		return true
	}
	return e.Can(p, obj, act)
}

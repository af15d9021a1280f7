package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"prosps/backend/internal/model"
	"prosps/backend/internal/repository"
)

// ── 请求元信息（中间件注入，操作日志读取）──

type ctxKey string

const (
	ctxKeyClientIP  ctxKey = "client_ip"
	ctxKeyUserAgent ctxKey = "user_agent"
)

// WithRequestMeta 将客户端 IP 与 User-Agent 注入 context
func WithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyClientIP, ip)
	return context.WithValue(ctx, ctxKeyUserAgent, userAgent)
}

func requestMeta(ctx context.Context) (ip, userAgent *string) {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok && v != "" {
		ip = &v
	}
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok && v != "" {
		if len(v) > 255 {
			v = v[:255]
		}
		userAgent = &v
	}
	return ip, userAgent
}

// recordActivity 写入操作日志。
// 尽力而为：写入失败只告警，绝不让业务操作因此失败。
func recordActivity(
	ctx context.Context,
	repo repository.ActivityLogRepository,
	logger *zap.Logger,
	userID *string,
	action, entityType, entityID string,
	details interface{},
) {
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			logger.Warn("序列化日志详情失败", zap.String("action", action), zap.Error(err))
		} else {
			raw = b
		}
	}

	ip, ua := requestMeta(ctx)

	log := &model.ActivityLog{
		UserID:    userID,
		Action:    action,
		Details:   raw,
		IPAddress: ip,
		UserAgent: ua,
	}
	if entityType != "" {
		log.EntityType = &entityType
	}
	if entityID != "" {
		log.EntityID = &entityID
	}

	if err := repo.Create(ctx, log); err != nil {
		logger.Warn("写入操作日志失败", zap.String("action", action), zap.Error(err))
	}
}

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/repository"
	"prosps/backend/internal/workflow"
)

const (
	monthBucketCount  = 6
	topCoordinatorMax = 5
	recentActivityMax = 10
)

// frenchMonths 法语短月名（索引 = 月份 - 1）
var frenchMonths = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// DashboardService 仪表盘统计业务接口
type DashboardService interface {
	GetStats(ctx context.Context, coordinatorID string) (*dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 测试可注入
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger, now: time.Now}
}

// GetStats 仪表盘统计。
// coordinatorID 非空时按该协调员过滤（协调员视角），
// 为空时返回全局统计（管理员视角）
func (s *dashboardService) GetStats(ctx context.Context, coordinatorID string) (*dto.DashboardStatsResponse, error) {
	resp := &dto.DashboardStatsResponse{}

	// ── 任务统计 ──
	totalMissions, err := s.repo.Mission.Count(ctx, coordinatorID)
	if err != nil {
		s.logger.Error("统计任务总数失败", zap.Error(err))
		return nil, err
	}
	resp.TotalMissions = totalMissions

	missionByStatut, err := s.repo.Mission.CountByStatut(ctx, coordinatorID)
	if err != nil {
		s.logger.Error("统计任务状态分布失败", zap.Error(err))
		return nil, err
	}
	// 待处理 = 未指派 + 已指派未开始
	resp.PendingMissions = missionByStatut[workflow.MissionPending] + missionByStatut[workflow.MissionAssigned]
	resp.CompletedMissions = missionByStatut[workflow.MissionCompleted]
	resp.MissionsByStatus = statusCounts(workflow.MissionStatuses, missionByStatut)

	// ── 报告统计 ──
	totalReports, err := s.repo.Rapport.Count(ctx, coordinatorID)
	if err != nil {
		s.logger.Error("统计报告总数失败", zap.Error(err))
		return nil, err
	}
	resp.TotalReports = totalReports

	rapportByStatut, err := s.repo.Rapport.CountByStatut(ctx, coordinatorID)
	if err != nil {
		s.logger.Error("统计报告状态分布失败", zap.Error(err))
		return nil, err
	}
	resp.ValidatedReports = rapportByStatut[workflow.RapportValidated] + rapportByStatut[workflow.RapportSentToClient]
	resp.ReportsByStatus = statusCounts(workflow.RapportStatuses, rapportByStatut)

	// ── 协调员 ──
	activeCoordinators, err := s.repo.User.CountActiveCoordinators(ctx)
	if err != nil {
		s.logger.Error("统计在职协调员失败", zap.Error(err))
		return nil, err
	}
	resp.ActiveCoordinators = activeCoordinators

	// 排名与最近操作为全局面板，协调员视角不返回
	if coordinatorID == "" {
		topRows, err := s.repo.Mission.TopCoordinators(ctx, topCoordinatorMax)
		if err != nil {
			s.logger.Error("统计协调员排名失败", zap.Error(err))
			return nil, err
		}
		resp.TopCoordinators = make([]dto.CoordinatorStat, 0, len(topRows))
		for _, row := range topRows {
			resp.TopCoordinators = append(resp.TopCoordinators, dto.CoordinatorStat{
				CoordinatorID:  row.CoordinatorID,
				CoordinatorNom: row.FirstName + " " + row.LastName,
				MissionCount:   row.Count,
			})
		}
	}

	// ── 近六个月任务量 ──
	buckets, err := s.monthBuckets(ctx, coordinatorID)
	if err != nil {
		return nil, err
	}
	resp.MissionsByMonth = buckets

	// ── 平均处理时长 ──
	avgDays, err := s.avgTurnaroundDays(ctx, coordinatorID)
	if err != nil {
		return nil, err
	}
	resp.AvgTurnaroundDays = avgDays

	// ── 最近操作 ──
	if coordinatorID == "" {
		logs, err := s.repo.ActivityLog.ListRecent(ctx, recentActivityMax)
		if err != nil {
			s.logger.Error("查询最近操作失败", zap.Error(err))
			return nil, err
		}
		resp.RecentActivity = make([]dto.ActivityLogEntry, 0, len(logs))
		for i := range logs {
			resp.RecentActivity = append(resp.RecentActivity, toActivityLogEntry(&logs[i], nil))
		}
	}

	return resp, nil
}

// monthBuckets 近六个自然月（含当月）的任务量，按时间升序，空月补零
func (s *dashboardService) monthBuckets(ctx context.Context, coordinatorID string) ([]dto.MonthBucket, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(monthBucketCount - 1), 0)

	rows, err := s.repo.Mission.CountByMonth(ctx, start, coordinatorID)
	if err != nil {
		s.logger.Error("统计月度任务量失败", zap.Error(err))
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[fmt.Sprintf("%d-%d", row.Year, row.Month)] = row.Count
	}

	buckets := make([]dto.MonthBucket, 0, monthBucketCount)
	for i := 0; i < monthBucketCount; i++ {
		m := start.AddDate(0, i, 0)
		key := fmt.Sprintf("%d-%d", m.Year(), int(m.Month()))
		buckets = append(buckets, dto.MonthBucket{
			Label: fmt.Sprintf("%s %d", frenchMonths[m.Month()-1], m.Year()),
			Count: counts[key],
		})
	}
	return buckets, nil
}

// avgTurnaroundDays 已验证/已发送报告「创建 → 验证」的平均天数（四舍五入）
// validated_at 缺失时按零时长计入，无样本返回 0
func (s *dashboardService) avgTurnaroundDays(ctx context.Context, coordinatorID string) (int, error) {
	samples, err := s.repo.Rapport.ListTurnaroundSamples(ctx, coordinatorID)
	if err != nil {
		s.logger.Error("查询报告时长样本失败", zap.Error(err))
		return 0, err
	}
	if len(samples) == 0 {
		return 0, nil
	}

	var totalDays float64
	for _, sample := range samples {
		end := sample.CreatedAt
		if sample.ValidatedAt != nil {
			end = *sample.ValidatedAt
		}
		totalDays += end.Sub(sample.CreatedAt).Hours() / 24
	}
	return int(math.Round(totalDays / float64(len(samples)))), nil
}

// statusCounts 按给定状态顺序输出计数（含零值），保证响应顺序稳定
func statusCounts(statuses []string, counts map[string]int64) []dto.StatusCount {
	result := make([]dto.StatusCount, 0, len(statuses))
	for _, st := range statuses {
		result = append(result, dto.StatusCount{Statut: st, Count: counts[st]})
	}
	return result
}

package dto

// ── 仪表盘 DTO ──

// DashboardStatsResponse 仪表盘统计聚合
type DashboardStatsResponse struct {
	TotalMissions      int64               `json:"total_missions"`
	PendingMissions    int64               `json:"pending_missions"` // pending + assigned
	CompletedMissions  int64               `json:"completed_missions"`
	TotalReports       int64               `json:"total_reports"`
	ValidatedReports   int64               `json:"validated_reports"`
	ActiveCoordinators int64               `json:"active_coordinators"`
	AvgTurnaroundDays  int                 `json:"avg_turnaround_days"`
	MissionsByMonth    []MonthBucket       `json:"missions_by_month"`
	MissionsByStatus   []StatusCount       `json:"missions_by_status"`
	ReportsByStatus    []StatusCount       `json:"reports_by_status"`
	TopCoordinators    []CoordinatorStat   `json:"top_coordinators"`
	RecentActivity     []ActivityLogEntry  `json:"recent_activity"`
}

// MonthBucket 近六个自然月的任务数量（按时间升序，法语短月名）
type MonthBucket struct {
	Label string `json:"label"` // 如 "sept. 2026"
	Count int64  `json:"count"`
}

// StatusCount 按状态计数
type StatusCount struct {
	Statut string `json:"statut"`
	Count  int64  `json:"count"`
}

// CoordinatorStat 协调员任务量排名条目
type CoordinatorStat struct {
	CoordinatorID  string `json:"coordinator_id"`
	CoordinatorNom string `json:"coordinator_nom"`
	MissionCount   int64  `json:"mission_count"`
}

package workflow

// 任务与报告的状态机定义。
// 所有状态写入前必须经由 CanTransition 校验，
// 非法迁移（如 draft → sent_to_client）被确定性拒绝。

// ── 任务状态 ──

const (
	MissionPending    = "pending"
	MissionAssigned   = "assigned"
	MissionInProgress = "in_progress"
	MissionCompleted  = "completed"
	MissionRefused    = "refused"
	MissionCancelled  = "cancelled"
)

// MissionStatuses 任务状态全集
var MissionStatuses = []string{
	MissionPending,
	MissionAssigned,
	MissionInProgress,
	MissionCompleted,
	MissionRefused,
	MissionCancelled,
}

// missionTransitions 任务允许的状态迁移表
// assigned → assigned 表示改派（重新指派协调员）
var missionTransitions = map[string][]string{
	MissionPending:    {MissionAssigned, MissionCancelled},
	MissionAssigned:   {MissionAssigned, MissionInProgress, MissionRefused, MissionCancelled},
	MissionRefused:    {MissionAssigned},
	MissionInProgress: {MissionCompleted, MissionCancelled},
}

// ── 报告状态 ──

const (
	RapportDraft        = "draft"
	RapportSubmitted    = "submitted"
	RapportValidated    = "validated"
	RapportSentToClient = "sent_to_client"
)

// RapportStatuses 报告状态全集
var RapportStatuses = []string{
	RapportDraft,
	RapportSubmitted,
	RapportValidated,
	RapportSentToClient,
}

// rapportTransitions 报告状态线性迁移表，无回退路径
var rapportTransitions = map[string][]string{
	RapportDraft:     {RapportSubmitted},
	RapportSubmitted: {RapportValidated},
	RapportValidated: {RapportSentToClient},
}

// ── 校验 ──

// IsMissionStatus 判断是否为合法任务状态
func IsMissionStatus(s string) bool {
	return contains(MissionStatuses, s)
}

// IsRapportStatus 判断是否为合法报告状态
func IsRapportStatus(s string) bool {
	return contains(RapportStatuses, s)
}

// CanMissionTransition 判断任务状态迁移是否被允许
func CanMissionTransition(from, to string) bool {
	return contains(missionTransitions[from], to)
}

// CanRapportTransition 判断报告状态迁移是否被允许
func CanRapportTransition(from, to string) bool {
	return contains(rapportTransitions[from], to)
}

// AssignableMissionStatuses 可进入调度（指派/改派）的任务状态
func AssignableMissionStatuses() []string {
	return []string{MissionPending, MissionAssigned, MissionRefused}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

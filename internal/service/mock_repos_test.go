package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"prosps/backend/internal/model"
	"prosps/backend/internal/repository"
	"prosps/backend/pkg/pdfgen"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	profiles map[string]*model.Profile
	seq      int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockUserRepo) Create(_ context.Context, p *model.Profile) error {
	if p.ProfileID == "" {
		m.seq++
		p.ProfileID = fmt.Sprintf("profile-%03d", m.seq)
	}
	p.CreatedAt = time.Now()
	m.profiles[p.ProfileID] = p
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, p *model.Profile) error {
	m.profiles[p.ProfileID] = p
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role, keyword string, offset, limit int) ([]model.Profile, int64, error) {
	var result []model.Profile
	for _, p := range m.profiles {
		if role != "" && p.Role != role {
			continue
		}
		if keyword != "" {
			kw := strings.ToLower(keyword)
			if !strings.Contains(strings.ToLower(p.FirstName), kw) &&
				!strings.Contains(strings.ToLower(p.LastName), kw) &&
				!strings.Contains(strings.ToLower(p.Email), kw) {
				continue
			}
		}
		result = append(result, *p)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockUserRepo) ListActiveCoordinators(_ context.Context) ([]model.Profile, error) {
	var result []model.Profile
	for _, p := range m.profiles {
		if p.Role == model.RoleCoordinator && p.IsActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockUserRepo) CountActiveCoordinators(_ context.Context) (int64, error) {
	var n int64
	for _, p := range m.profiles {
		if p.Role == model.RoleCoordinator && p.IsActive {
			n++
		}
	}
	return n, nil
}

// ── Mock ClientRepository ──

type mockClientRepo struct {
	clients map[string]*model.Client
	seq     int
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*model.Client)}
}

func (m *mockClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ClientID == "" {
		m.seq++
		c.ClientID = fmt.Sprintf("client-%03d", m.seq)
	}
	m.clients[c.ClientID] = c
	return nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id string) (*model.Client, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) GetByNom(_ context.Context, nom string) (*model.Client, error) {
	for _, c := range m.clients {
		if strings.EqualFold(c.Nom, nom) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ChantierRepository ──

type mockChantierRepo struct {
	chantiers map[string]*model.Chantier
	seq       int
}

func newMockChantierRepo() *mockChantierRepo {
	return &mockChantierRepo{chantiers: make(map[string]*model.Chantier)}
}

func (m *mockChantierRepo) Create(_ context.Context, c *model.Chantier) error {
	if c.ChantierID == "" {
		m.seq++
		c.ChantierID = fmt.Sprintf("chantier-%03d", m.seq)
	}
	m.chantiers[c.ChantierID] = c
	return nil
}

func (m *mockChantierRepo) GetByID(_ context.Context, id string) (*model.Chantier, error) {
	if c, ok := m.chantiers[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockChantierRepo) FindMatch(_ context.Context, clientID, nom, adresse string) (*model.Chantier, error) {
	for _, c := range m.chantiers {
		if c.ClientID == clientID && strings.EqualFold(c.Nom, nom) && strings.EqualFold(c.Adresse, adresse) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock MissionRepository ──

type mockMissionRepo struct {
	missions map[string]*model.Mission
	seq      int
	// 附属数据用于 GetByID 预加载模拟
	chantierRepo *mockChantierRepo
	clientRepo   *mockClientRepo
	userRepo     *mockUserRepo
}

func newMockMissionRepo(chantiers *mockChantierRepo, clients *mockClientRepo, users *mockUserRepo) *mockMissionRepo {
	return &mockMissionRepo{
		missions:     make(map[string]*model.Mission),
		chantierRepo: chantiers,
		clientRepo:   clients,
		userRepo:     users,
	}
}

func (m *mockMissionRepo) Create(_ context.Context, mission *model.Mission) error {
	if mission.MissionID == "" {
		m.seq++
		mission.MissionID = fmt.Sprintf("mission-%03d", m.seq)
	}
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now()
	}
	m.missions[mission.MissionID] = mission
	return nil
}

// GetByID 返回副本并模拟关联预加载
func (m *mockMissionRepo) GetByID(_ context.Context, id string) (*model.Mission, error) {
	mission, ok := m.missions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *mission
	m.preload(&copied)
	return &copied, nil
}

func (m *mockMissionRepo) preload(mission *model.Mission) {
	if m.chantierRepo != nil {
		if c, ok := m.chantierRepo.chantiers[mission.ChantierID]; ok {
			chantier := *c
			if m.clientRepo != nil {
				if cl, ok := m.clientRepo.clients[c.ClientID]; ok {
					chantier.Client = cl
				}
			}
			mission.Chantier = &chantier
		}
	}
	if mission.CoordinatorID != nil && m.userRepo != nil {
		if p, ok := m.userRepo.profiles[*mission.CoordinatorID]; ok {
			mission.Coordinator = p
		}
	}
}

func (m *mockMissionRepo) Update(_ context.Context, mission *model.Mission) error {
	if _, ok := m.missions[mission.MissionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *mission
	copied.Chantier = nil
	copied.Coordinator = nil
	m.missions[mission.MissionID] = &copied
	return nil
}

func (m *mockMissionRepo) List(_ context.Context, statut, coordinatorID, _ string, offset, limit int) ([]model.Mission, int64, error) {
	var result []model.Mission
	for _, mission := range m.missions {
		if statut != "" && mission.Statut != statut {
			continue
		}
		if coordinatorID != "" && (mission.CoordinatorID == nil || *mission.CoordinatorID != coordinatorID) {
			continue
		}
		copied := *mission
		m.preload(&copied)
		result = append(result, copied)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockMissionRepo) ListByStatuts(_ context.Context, statuts []string, offset, limit int) ([]model.Mission, int64, error) {
	allowed := make(map[string]bool, len(statuts))
	for _, s := range statuts {
		allowed[s] = true
	}
	var result []model.Mission
	for _, mission := range m.missions {
		if !allowed[mission.Statut] {
			continue
		}
		copied := *mission
		m.preload(&copied)
		result = append(result, copied)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockMissionRepo) ListByCoordinator(_ context.Context, coordinatorID string) ([]model.Mission, error) {
	var result []model.Mission
	for _, mission := range m.missions {
		if mission.CoordinatorID != nil && *mission.CoordinatorID == coordinatorID {
			copied := *mission
			m.preload(&copied)
			result = append(result, copied)
		}
	}
	return result, nil
}

func missionBelongsTo(mission *model.Mission, coordinatorID string) bool {
	return coordinatorID == "" || (mission.CoordinatorID != nil && *mission.CoordinatorID == coordinatorID)
}

func (m *mockMissionRepo) Count(_ context.Context, coordinatorID string) (int64, error) {
	var total int64
	for _, mission := range m.missions {
		if missionBelongsTo(mission, coordinatorID) {
			total++
		}
	}
	return total, nil
}

func (m *mockMissionRepo) CountByStatut(_ context.Context, coordinatorID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, mission := range m.missions {
		if missionBelongsTo(mission, coordinatorID) {
			counts[mission.Statut]++
		}
	}
	return counts, nil
}

func (m *mockMissionRepo) CountByMonth(_ context.Context, from time.Time, coordinatorID string) ([]repository.MonthCount, error) {
	counts := make(map[[2]int]int64)
	for _, mission := range m.missions {
		if mission.CreatedAt.Before(from) || !missionBelongsTo(mission, coordinatorID) {
			continue
		}
		counts[[2]int{mission.CreatedAt.Year(), int(mission.CreatedAt.Month())}]++
	}
	var rows []repository.MonthCount
	for key, count := range counts {
		rows = append(rows, repository.MonthCount{Year: key[0], Month: key[1], Count: count})
	}
	return rows, nil
}

func (m *mockMissionRepo) TopCoordinators(_ context.Context, limit int) ([]repository.CoordinatorCount, error) {
	counts := make(map[string]int64)
	for _, mission := range m.missions {
		if mission.CoordinatorID != nil {
			counts[*mission.CoordinatorID]++
		}
	}
	var rows []repository.CoordinatorCount
	for id, count := range counts {
		row := repository.CoordinatorCount{CoordinatorID: id, Count: count}
		if m.userRepo != nil {
			if p, ok := m.userRepo.profiles[id]; ok {
				row.FirstName = p.FirstName
				row.LastName = p.LastName
			}
		}
		rows = append(rows, row)
	}
	// 按数量降序、ID 升序排序（与 SQL 一致）
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			if rows[j].Count > rows[i].Count ||
				(rows[j].Count == rows[i].Count && rows[j].CoordinatorID < rows[i].CoordinatorID) {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// ── Mock RapportRepository ──

type mockRapportRepo struct {
	rapports map[string]*model.Rapport
	// 预加载模拟
	missionRepo *mockMissionRepo
	userRepo    *mockUserRepo
}

func newMockRapportRepo(missions *mockMissionRepo, users *mockUserRepo) *mockRapportRepo {
	return &mockRapportRepo{
		rapports:    make(map[string]*model.Rapport),
		missionRepo: missions,
		userRepo:    users,
	}
}

func (m *mockRapportRepo) GetByID(_ context.Context, id string) (*model.Rapport, error) {
	rapport, ok := m.rapports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rapport
	m.preload(&copied)
	return &copied, nil
}

func (m *mockRapportRepo) preload(rapport *model.Rapport) {
	if m.missionRepo != nil {
		if mission, ok := m.missionRepo.missions[rapport.MissionID]; ok {
			copied := *mission
			m.missionRepo.preload(&copied)
			rapport.Mission = &copied
		}
	}
	if m.userRepo != nil {
		if p, ok := m.userRepo.profiles[rapport.CoordinatorID]; ok {
			rapport.Coordinator = p
		}
	}
}

func (m *mockRapportRepo) Update(_ context.Context, rapport *model.Rapport) error {
	if _, ok := m.rapports[rapport.RapportID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *rapport
	copied.Mission = nil
	copied.Coordinator = nil
	copied.Visit = nil
	m.rapports[rapport.RapportID] = &copied
	return nil
}

func (m *mockRapportRepo) List(_ context.Context, statut, coordinatorID, _ string, offset, limit int) ([]model.Rapport, int64, error) {
	var result []model.Rapport
	for _, rapport := range m.rapports {
		if statut != "" && rapport.Statut != statut {
			continue
		}
		if coordinatorID != "" && rapport.CoordinatorID != coordinatorID {
			continue
		}
		copied := *rapport
		m.preload(&copied)
		result = append(result, copied)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockRapportRepo) Count(_ context.Context, coordinatorID string) (int64, error) {
	var total int64
	for _, rapport := range m.rapports {
		if coordinatorID == "" || rapport.CoordinatorID == coordinatorID {
			total++
		}
	}
	return total, nil
}

func (m *mockRapportRepo) CountByStatut(_ context.Context, coordinatorID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, rapport := range m.rapports {
		if coordinatorID == "" || rapport.CoordinatorID == coordinatorID {
			counts[rapport.Statut]++
		}
	}
	return counts, nil
}

func (m *mockRapportRepo) ListTurnaroundSamples(_ context.Context, coordinatorID string) ([]repository.TurnaroundRow, error) {
	var rows []repository.TurnaroundRow
	for _, rapport := range m.rapports {
		if coordinatorID != "" && rapport.CoordinatorID != coordinatorID {
			continue
		}
		if rapport.Statut == "validated" || rapport.Statut == "sent_to_client" {
			rows = append(rows, repository.TurnaroundRow{
				CreatedAt:   rapport.CreatedAt,
				ValidatedAt: rapport.ValidatedAt,
			})
		}
	}
	return rows, nil
}

// ── Mock VisitRepository ──

type mockVisitRepo struct {
	visits map[string]*model.Visit
	photos map[string][]model.VisitPhoto // key: visitID
	// 返回错误用于降级路径测试
	photosErr error
}

func newMockVisitRepo() *mockVisitRepo {
	return &mockVisitRepo{
		visits: make(map[string]*model.Visit),
		photos: make(map[string][]model.VisitPhoto),
	}
}

func (m *mockVisitRepo) GetByID(_ context.Context, id string) (*model.Visit, error) {
	visit, ok := m.visits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *visit
	copied.Photos = m.photos[id]
	return &copied, nil
}

func (m *mockVisitRepo) ListPhotosByVisit(_ context.Context, visitID string) ([]model.VisitPhoto, error) {
	if m.photosErr != nil {
		return nil, m.photosErr
	}
	return m.photos[visitID], nil
}

// ── Mock ActivityLogRepository ──

type mockActivityLogRepo struct {
	logs []model.ActivityLog
	seq  int
}

func newMockActivityLogRepo() *mockActivityLogRepo {
	return &mockActivityLogRepo{}
}

func (m *mockActivityLogRepo) Create(_ context.Context, log *model.ActivityLog) error {
	if log.LogID == "" {
		m.seq++
		log.LogID = fmt.Sprintf("log-%03d", m.seq)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockActivityLogRepo) List(_ context.Context, userID, entityType string, offset, limit int) ([]model.ActivityLog, int64, error) {
	var result []model.ActivityLog
	for _, log := range m.logs {
		if userID != "" && (log.UserID == nil || *log.UserID != userID) {
			continue
		}
		if entityType != "" && (log.EntityType == nil || *log.EntityType != entityType) {
			continue
		}
		result = append(result, log)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockActivityLogRepo) ListRecent(_ context.Context, limit int) ([]model.ActivityLog, error) {
	// 按写入逆序返回
	var result []model.ActivityLog
	for i := len(m.logs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.logs[i])
	}
	return result, nil
}

// actions 返回已记录的 action 列表，测试断言用
func (m *mockActivityLogRepo) actions() []string {
	result := make([]string, 0, len(m.logs))
	for _, log := range m.logs {
		result = append(result, log.Action)
	}
	return result
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	entries map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{entries: make(map[string]bool)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.entries[jti] = true
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.entries[jti], nil
}

// ── Mock Storage ──

type mockStorage struct {
	objects map[string][]byte
	putErr  error
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string][]byte)}
}

func (m *mockStorage) EnsureBucket(_ context.Context) error {
	return nil
}

func (m *mockStorage) PutObject(_ context.Context, objectKey string, data []byte, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[objectKey] = data
	return nil
}

func (m *mockStorage) PresignedGetURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

// ── Mock PDF Generator ──

type mockPDFGenerator struct {
	lastPayload *pdfgen.ReportPayload
	genErr      error
}

func newMockPDFGenerator() *mockPDFGenerator {
	return &mockPDFGenerator{}
}

func (m *mockPDFGenerator) GenerateReportPDF(_ context.Context, payload *pdfgen.ReportPayload) ([]byte, error) {
	if m.genErr != nil {
		return nil, m.genErr
	}
	m.lastPayload = payload
	return []byte("%PDF-1.4 test"), nil
}

// ── 组装 ──

type testRepos struct {
	user     *mockUserRepo
	client   *mockClientRepo
	chantier *mockChantierRepo
	mission  *mockMissionRepo
	rapport  *mockRapportRepo
	visit    *mockVisitRepo
	activity *mockActivityLogRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	users := newMockUserRepo()
	clients := newMockClientRepo()
	chantiers := newMockChantierRepo()
	missions := newMockMissionRepo(chantiers, clients, users)
	rapports := newMockRapportRepo(missions, users)
	visits := newMockVisitRepo()
	activity := newMockActivityLogRepo()

	mocks := &testRepos{
		user:     users,
		client:   clients,
		chantier: chantiers,
		mission:  missions,
		rapport:  rapports,
		visit:    visits,
		activity: activity,
	}
	repo := &repository.Repository{
		User:        users,
		Client:      clients,
		Chantier:    chantiers,
		Mission:     missions,
		Rapport:     rapports,
		Visit:       visits,
		ActivityLog: activity,
	}
	return repo, mocks
}

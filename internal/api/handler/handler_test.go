package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"prosps/backend/internal/dto"
	"prosps/backend/internal/service"
	jwtpkg "prosps/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.UserResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwtpkg.Claims, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock MissionService ──

type mockMissionService struct {
	listResult        []dto.MissionResponse
	listTotal         int64
	listErr           error
	listCoordinatorID string
	dispatchResult    []dto.MissionResponse
	dispatchTotal     int64
	dispatchErr       error
	getResult         *dto.MissionResponse
	getErr            error
	createResult      *dto.MissionResponse
	createErr         error
	assignResult      *dto.MissionResponse
	assignErr         error
	statusResult      *dto.MissionResponse
	statusErr         error
	statusRole        string
	parseRows         []dto.ImportMissionRow
	parseErr          error
	importResult      *dto.ImportMissionResponse
	importErr         error
	calendarICS       string
	calendarErr       error
	parsedName        string
	importedCount     int
}

func (m *mockMissionService) List(_ context.Context, req *dto.MissionListRequest) ([]dto.MissionResponse, int64, error) {
	m.listCoordinatorID = req.CoordinatorID
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockMissionService) ListDispatch(_ context.Context, _ *dto.PaginationRequest) ([]dto.MissionResponse, int64, error) {
	return m.dispatchResult, m.dispatchTotal, m.dispatchErr
}
func (m *mockMissionService) Get(_ context.Context, _ string) (*dto.MissionResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockMissionService) Create(_ context.Context, _ string, _ *dto.CreateMissionRequest) (*dto.MissionResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockMissionService) Assign(_ context.Context, _, _ string, _ *dto.AssignMissionRequest) (*dto.MissionResponse, error) {
	return m.assignResult, m.assignErr
}
func (m *mockMissionService) UpdateStatus(_ context.Context, _, actorRole, _ string, _ *dto.UpdateMissionStatusRequest) (*dto.MissionResponse, error) {
	m.statusRole = actorRole
	return m.statusResult, m.statusErr
}
func (m *mockMissionService) ParseImportFile(filename string, _ []byte) ([]dto.ImportMissionRow, error) {
	m.parsedName = filename
	return m.parseRows, m.parseErr
}
func (m *mockMissionService) Import(_ context.Context, _ string, rows []dto.ImportMissionRow) (*dto.ImportMissionResponse, error) {
	m.importedCount = len(rows)
	return m.importResult, m.importErr
}
func (m *mockMissionService) ExportCalendar(_ context.Context, _ string) (string, error) {
	return m.calendarICS, m.calendarErr
}

// ── Mock RapportService ──

type mockRapportService struct {
	listResult     []dto.RapportResponse
	listTotal      int64
	listErr        error
	getResult      *dto.RapportResponse
	getErr         error
	getActorID     string
	getActorRole   string
	updateResult   *dto.RapportResponse
	updateErr      error
	validateResult *dto.RapportResponse
	validateErr    error
	sendResult     *dto.RapportResponse
	sendErr        error
}

func (m *mockRapportService) List(_ context.Context, _ *dto.RapportListRequest) ([]dto.RapportResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockRapportService) Get(_ context.Context, actorID, actorRole, _ string) (*dto.RapportResponse, error) {
	m.getActorID = actorID
	m.getActorRole = actorRole
	return m.getResult, m.getErr
}
func (m *mockRapportService) Update(_ context.Context, _, _ string, _ *dto.UpdateRapportRequest) (*dto.RapportResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockRapportService) Validate(_ context.Context, _, _ string) (*dto.RapportResponse, error) {
	return m.validateResult, m.validateErr
}
func (m *mockRapportService) SendToClient(_ context.Context, _, _ string) (*dto.RapportResponse, error) {
	return m.sendResult, m.sendErr
}

// ── Mock UserService ──

type mockUserService struct {
	listResult   []dto.UserResponse
	listTotal    int64
	listErr      error
	createResult *dto.UserResponse
	createErr    error
	getResult    *dto.UserResponse
	getErr       error
	updateResult *dto.UserResponse
	updateErr    error
	toggleResult *dto.UserResponse
	toggleErr    error
	coordsResult []dto.CoordinatorResponse
	coordsErr    error
}

func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockUserService) Create(_ context.Context, _ string, _ *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockUserService) Get(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockUserService) Update(_ context.Context, _, _ string, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUserService) ToggleActive(_ context.Context, _, _ string) (*dto.UserResponse, error) {
	return m.toggleResult, m.toggleErr
}
func (m *mockUserService) ListCoordinators(_ context.Context) ([]dto.CoordinatorResponse, error) {
	return m.coordsResult, m.coordsErr
}

// ── Mock DashboardService ──

type mockDashboardService struct {
	statsResult        *dto.DashboardStatsResponse
	statsErr           error
	statsCoordinatorID string
}

func (m *mockDashboardService) GetStats(_ context.Context, coordinatorID string) (*dto.DashboardStatsResponse, error) {
	m.statsCoordinatorID = coordinatorID
	return m.statsResult, m.statsErr
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// setAuth 模拟 JWT 中间件注入的上下文
func setAuth(c *gin.Context) {
	c.Set("user_id", "admin-001")
	c.Set("role", "admin")
	c.Set("claims", &jwtpkg.Claims{UserID: "admin-001", Role: "admin"})
}

// ═══════════════════════════════════════════════════════════
// Auth
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@prosps.fr",
		Password: "motdepasse123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@prosps.fr",
		Password: "mauvais",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Login_DisabledAccount(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrAccountDisabled}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "coord@prosps.fr",
		Password: "motdepasse123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAuthHandler_Login_MissingEmail(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(map[string]string{"password": "x"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Mission
// ═══════════════════════════════════════════════════════════

func TestMissionHandler_List_Success(t *testing.T) {
	mock := &mockMissionService{
		listResult: []dto.MissionResponse{{ID: "mission-001", Statut: "pending"}},
		listTotal:  1,
	}
	h := NewMissionHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missions?statut=pending", nil)

	r := gin.New()
	r.GET("/missions", h.ListMissions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data struct {
			Pagination struct {
				Total int64 `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp.Data.Pagination.Total != 1 {
		t.Errorf("expected total=1, got %d", resp.Data.Pagination.Total)
	}
}

func TestMissionHandler_List_CoordinatorScoped(t *testing.T) {
	mock := &mockMissionService{}
	h := NewMissionHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missions?coordinator_id=11111111-1111-1111-1111-111111111111", nil)

	r := gin.New()
	r.GET("/missions", func(c *gin.Context) {
		c.Set("user_id", "coord-001")
		c.Set("role", "coordinator")
		h.ListMissions(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// 协调员传入的过滤参数应被覆盖为自己的 ID
	if mock.listCoordinatorID != "coord-001" {
		t.Errorf("协调员应只能查看自己的任务, 实际过滤 %q", mock.listCoordinatorID)
	}
}

func TestMissionHandler_ListDispatch_Success(t *testing.T) {
	mock := &mockMissionService{
		dispatchResult: []dto.MissionResponse{{ID: "mission-001", Statut: "refused"}},
		dispatchTotal:  1,
	}
	h := NewMissionHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missions/dispatch", nil)

	r := gin.New()
	r.GET("/missions/dispatch", func(c *gin.Context) {
		setAuth(c)
		h.ListDispatchMissions(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"statut":"refused"`)) {
		t.Error("派遣视图应包含 refused 状态任务")
	}
}

func TestMissionHandler_List_InvalidStatut(t *testing.T) {
	h := NewMissionHandler(&mockMissionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missions?statut=archived", nil)

	r := gin.New()
	r.GET("/missions", h.ListMissions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("非法状态过滤应 400, got %d", w.Code)
	}
}

func TestMissionHandler_Create_Success(t *testing.T) {
	mock := &mockMissionService{
		createResult: &dto.MissionResponse{ID: "mission-001", Statut: "pending"},
	}
	h := NewMissionHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/missions", jsonBody(dto.CreateMissionRequest{
		ClientNom:   "Bouygues",
		ChantierNom: "Tour Horizon",
		Adresse:     "12 rue de la Paix",
		Ville:       "Paris",
		DateDebut:   "2026-09-10",
		DateFin:     "2026-09-20",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/missions", func(c *gin.Context) {
		setAuth(c)
		h.CreateMission(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestMissionHandler_Create_BadDateFormat(t *testing.T) {
	h := NewMissionHandler(&mockMissionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/missions", jsonBody(map[string]string{
		"client_nom":   "Bouygues",
		"chantier_nom": "Tour Horizon",
		"adresse":      "12 rue de la Paix",
		"ville":        "Paris",
		"date_debut":   "10/09/2026", // 非 ISO 格式
		"date_fin":     "2026-09-20",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/missions", func(c *gin.Context) {
		setAuth(c)
		h.CreateMission(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMissionHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	mock := &mockMissionService{statusErr: service.ErrInvalidTransition}
	h := NewMissionHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/missions/mission-001/status", jsonBody(dto.UpdateMissionStatusRequest{
		Statut: "completed",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/missions/:id/status", func(c *gin.Context) {
		setAuth(c)
		h.UpdateMissionStatus(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("非法迁移应 409, got %d", w.Code)
	}
}

func TestMissionHandler_UpdateStatus_Forbidden(t *testing.T) {
	mock := &mockMissionService{statusErr: service.ErrMissionForbidden}
	h := NewMissionHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/missions/mission-001/status", jsonBody(dto.UpdateMissionStatusRequest{
		Statut: "cancelled",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/missions/:id/status", func(c *gin.Context) {
		c.Set("user_id", "coord-001")
		c.Set("role", "coordinator")
		h.UpdateMissionStatus(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	// 角色必须透传给服务层做权限判断
	if mock.statusRole != "coordinator" {
		t.Errorf("角色未透传, 实际 %q", mock.statusRole)
	}
}

func TestMissionHandler_Import_Success(t *testing.T) {
	mock := &mockMissionService{
		parseRows:    []dto.ImportMissionRow{{Row: 2}, {Row: 3}},
		importResult: &dto.ImportMissionResponse{Total: 2, Success: 2},
	}
	h := NewMissionHandler(mock)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "missions.csv")
	fw.Write([]byte("client,chantier\n"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/missions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	r := gin.New()
	r.POST("/missions/import", func(c *gin.Context) {
		setAuth(c)
		h.ImportMissions(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mock.parsedName != "missions.csv" {
		t.Errorf("文件名应传递给解析器, 实际 %q", mock.parsedName)
	}
	if mock.importedCount != 2 {
		t.Errorf("解析结果应全部导入, 实际 %d", mock.importedCount)
	}
}

func TestMissionHandler_Import_MissingFile(t *testing.T) {
	h := NewMissionHandler(&mockMissionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/missions/import", nil)

	r := gin.New()
	r.POST("/missions/import", func(c *gin.Context) {
		setAuth(c)
		h.ImportMissions(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMissionHandler_ExportCalendar_Success(t *testing.T) {
	mock := &mockMissionService{calendarICS: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	h := NewMissionHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missions/calendar.ics?coordinator_id=coord-001", nil)

	r := gin.New()
	r.GET("/missions/calendar.ics", h.ExportCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("Content-Type 应为 text/calendar, 实际 %q", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("BEGIN:VCALENDAR")) {
		t.Error("响应体应为 iCalendar 内容")
	}
}

func TestMissionHandler_ExportCalendar_MissingCoordinator(t *testing.T) {
	h := NewMissionHandler(&mockMissionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missions/calendar.ics", nil)

	r := gin.New()
	r.GET("/missions/calendar.ics", h.ExportCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Rapport
// ═══════════════════════════════════════════════════════════

func TestRapportHandler_Validate_Success(t *testing.T) {
	now := time.Now().Format(time.RFC3339)
	mock := &mockRapportService{
		validateResult: &dto.RapportResponse{ID: "rapport-001", Statut: "validated", ValidatedAt: &now},
	}
	h := NewRapportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/rapports/rapport-001/validate", nil)

	r := gin.New()
	r.PUT("/rapports/:id/validate", func(c *gin.Context) {
		setAuth(c)
		h.ValidateRapport(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRapportHandler_Send_InvalidTransition(t *testing.T) {
	mock := &mockRapportService{sendErr: service.ErrInvalidTransition}
	h := NewRapportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/rapports/rapport-001/send", nil)

	r := gin.New()
	r.POST("/rapports/:id/send", func(c *gin.Context) {
		setAuth(c)
		h.SendRapport(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestRapportHandler_Update_Locked(t *testing.T) {
	mock := &mockRapportService{updateErr: service.ErrRapportLocked}
	h := NewRapportHandler(mock)

	content := "nouveau contenu"
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/rapports/rapport-001", jsonBody(dto.UpdateRapportRequest{Content: &content}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/rapports/:id", func(c *gin.Context) {
		setAuth(c)
		h.UpdateRapport(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestRapportHandler_Get_NotFound(t *testing.T) {
	mock := &mockRapportService{getErr: service.ErrRapportNotFound}
	h := NewRapportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/rapports/inconnu", nil)

	r := gin.New()
	r.GET("/rapports/:id", func(c *gin.Context) {
		setAuth(c)
		h.GetRapport(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRapportHandler_Get_PassesActorToService(t *testing.T) {
	mock := &mockRapportService{getResult: &dto.RapportResponse{ID: "rapport-001"}}
	h := NewRapportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/rapports/rapport-001", nil)

	r := gin.New()
	r.GET("/rapports/:id", func(c *gin.Context) {
		c.Set("user_id", "coord-001")
		c.Set("role", "coordinator")
		h.GetRapport(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// 越权判断在服务层完成，处理器必须透传身份
	if mock.getActorID != "coord-001" || mock.getActorRole != "coordinator" {
		t.Errorf("身份未透传, 实际 actor=%q role=%q", mock.getActorID, mock.getActorRole)
	}
}

func TestRapportHandler_Get_Forbidden(t *testing.T) {
	mock := &mockRapportService{getErr: service.ErrRapportForbidden}
	h := NewRapportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/rapports/rapport-001", nil)

	r := gin.New()
	r.GET("/rapports/:id", func(c *gin.Context) {
		c.Set("user_id", "coord-002")
		c.Set("role", "coordinator")
		h.GetRapport(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRapportHandler_List_CoordinatorHidesAdminNotes(t *testing.T) {
	notes := "remarque interne"
	mock := &mockRapportService{
		listResult: []dto.RapportResponse{{ID: "rapport-001", CoordinatorID: "coord-001", RemarquesAdmin: &notes}},
		listTotal:  1,
	}
	h := NewRapportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/rapports", nil)

	r := gin.New()
	r.GET("/rapports", func(c *gin.Context) {
		c.Set("user_id", "coord-001")
		c.Set("role", "coordinator")
		h.ListRapports(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("remarque interne")) {
		t.Error("协调员列表响应不应包含管理员内部备注")
	}
}

// ═══════════════════════════════════════════════════════════
// User
// ═══════════════════════════════════════════════════════════

func createUserBody(password string) *bytes.Reader {
	return jsonBody(dto.CreateUserRequest{
		Email:     "marie.durand@prosps.fr",
		Password:  password,
		FirstName: "Marie",
		LastName:  "Durand",
		Role:      "coordinator",
	})
}

func TestUserHandler_Create_SixCharPassword(t *testing.T) {
	mock := &mockUserService{createResult: &dto.UserResponse{ID: "profile-001"}}
	h := NewUserHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", createUserBody("abc123"))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/users", func(c *gin.Context) {
		setAuth(c)
		h.CreateUser(c)
	})
	r.ServeHTTP(w, req)

	// 密码下限为 6 位
	if w.Code != http.StatusCreated {
		t.Errorf("6 位密码应通过校验, got %d", w.Code)
	}
}

func TestUserHandler_Create_PasswordTooShort(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", createUserBody("abc12"))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/users", func(c *gin.Context) {
		setAuth(c)
		h.CreateUser(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("5 位密码应被拒绝, got %d", w.Code)
	}
}

func TestUserHandler_Update_IgnoresEmailField(t *testing.T) {
	mock := &mockUserService{updateResult: &dto.UserResponse{ID: "profile-001", Email: "marie.durand@prosps.fr"}}
	h := NewUserHandler(mock)

	w := httptest.NewRecorder()
	// 邮箱不可修改：请求中的 email 字段不属于更新请求，应被忽略
	req := httptest.NewRequest("PUT", "/users/profile-001", jsonBody(map[string]string{
		"email":      "nouvelle@prosps.fr",
		"first_name": "Marie",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/users/:id", func(c *gin.Context) {
		setAuth(c)
		h.UpdateUser(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("marie.durand@prosps.fr")) {
		t.Error("响应邮箱应保持原值")
	}
}

// ═══════════════════════════════════════════════════════════
// Dashboard
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_GetStats_Success(t *testing.T) {
	mock := &mockDashboardService{
		statsResult: &dto.DashboardStatsResponse{TotalMissions: 42},
	}
	h := NewDashboardHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/dashboard/stats", nil)

	r := gin.New()
	r.GET("/dashboard/stats", func(c *gin.Context) {
		setAuth(c)
		h.GetStats(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"total_missions":42`)) {
		t.Error("响应应包含任务总数")
	}
	// 管理员看全局统计
	if mock.statsCoordinatorID != "" {
		t.Errorf("管理员不应限定协调员, 实际 %q", mock.statsCoordinatorID)
	}
}

func TestDashboardHandler_GetStats_CoordinatorScoped(t *testing.T) {
	mock := &mockDashboardService{
		statsResult: &dto.DashboardStatsResponse{TotalMissions: 3},
	}
	h := NewDashboardHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/dashboard/stats", nil)

	r := gin.New()
	r.GET("/dashboard/stats", func(c *gin.Context) {
		c.Set("user_id", "coord-001")
		c.Set("role", "coordinator")
		h.GetStats(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// 协调员的统计限定为自己的数据
	if mock.statsCoordinatorID != "coord-001" {
		t.Errorf("协调员统计应限定为自己, 实际 %q", mock.statsCoordinatorID)
	}
}

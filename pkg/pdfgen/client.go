package pdfgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"prosps/backend/config"
)

// Generator 报告 PDF 生成接口
// 真实实现调用外部 PDF 生成服务；测试中以假实现替代
type Generator interface {
	GenerateReportPDF(ctx context.Context, payload *ReportPayload) ([]byte, error)
}

// ReportPayload 发送给 PDF 服务的结构化数据（与服务端约定一致）
type ReportPayload struct {
	Title      string  `json:"title"`
	Mission    string  `json:"mission"`
	Client     string  `json:"client"`
	Date       string  `json:"date"`
	Conformity *int    `json:"conformity"`
	Header     string  `json:"header"`
	Content    string  `json:"content"`
	Footer     string  `json:"footer"`
	Photos     []Photo `json:"photos"`
}

// Photo 报告照片条目
type Photo struct {
	ID         string      `json:"id"`
	URL        string      `json:"url"`
	Timestamp  time.Time   `json:"timestamp"`
	AIAnalysis *AIAnalysis `json:"aiAnalysis,omitempty"`
	Comment    string      `json:"comment"`
	Validated  bool        `json:"validated"`
}

// AIAnalysis 照片 AI 分析结果
type AIAnalysis struct {
	Observations    []string `json:"observations"`
	Recommendations []string `json:"recommendations"`
	RiskLevel       string   `json:"riskLevel"`  // low | medium | high
	Confidence      int      `json:"confidence"` // 0-100 整数百分比
}

type httpGenerator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGenerator 创建基于 HTTP 的 PDF 生成客户端
func NewHTTPGenerator(cfg *config.PDFConfig) Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &httpGenerator{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// GenerateReportPDF 调用外部服务生成 PDF，返回文件字节
func (g *httpGenerator) GenerateReportPDF(ctx context.Context, payload *ReportPayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化 PDF 请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造 PDF 请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("调用 PDF 服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PDF 服务返回异常状态: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取 PDF 响应失败: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("PDF 服务返回空内容")
	}

	return data, nil
}

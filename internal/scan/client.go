// Package scan 调用处方识别服务并把识别结果合并进录入草稿。
// 识别本身是外部服务，本包只负责传输与字段级合并。
package scan

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"seniorcare-reminder/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrScanFailed 处方识别失败（草稿保持不变，用户可重试）
var ErrScanFailed = errors.New("prescription scan failed")

// ScanRequest 识别服务请求
type ScanRequest struct {
	Image string `json:"image"` // base64 编码的图片
}

// ScanResponse 识别服务响应
type ScanResponse struct {
	Status        string                 `json:"status"` // "success" 或 "error"
	Message       string                 `json:"message,omitempty"`
	ExtractedData models.ExtractedFields `json:"extracted_data"`
}

// Client 处方识别服务客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient 创建识别服务客户端
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout). // 识别可能需要较长时间
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// ExtractPrescription 上传处方图片，返回识别出的结构化字段
// 任意字段都可能缺失（空字符串）；调用方负责合并
func (c *Client) ExtractPrescription(imageBytes []byte) (*models.ExtractedFields, error) {
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrScanFailed)
	}

	request := ScanRequest{
		Image: base64.StdEncoding.EncodeToString(imageBytes),
	}

	c.logger.Info("Calling prescription scan service",
		zap.Int("image_bytes", len(imageBytes)),
	)

	var response ScanResponse
	resp, err := c.httpClient.R().
		SetBody(request).
		SetResult(&response).
		Post("/scan-prescription")

	if err != nil {
		c.logger.Error("Scan service call failed",
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrScanFailed, resp.StatusCode())
	}

	if response.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrScanFailed, response.Message)
	}

	c.logger.Info("Prescription scan succeeded",
		zap.String("name", response.ExtractedData.Name),
		zap.String("dose_time", response.ExtractedData.DoseTime),
	)

	return &response.ExtractedData, nil
}

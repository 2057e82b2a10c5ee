package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// RPCModel 通过 HTTP 调用外部推理服务的 predict_proba，适用于 sklearn / XGBoost 等
// 无法在 Go 进程内加载的模型。
//
// 请求格式（JSON）：
//
//	{"model": "spa-bundle", "instances": [[2, 0, 0, 3, ...]]}
//
// 响应格式（JSON）：
//
//	{"probabilities": [[0.82, 0.18]]}
type RPCModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/predict_proba"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCModel(name, endpoint string, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCModel{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *RPCModel) Name() string {
	return m.name
}

type rpcRequest struct {
	Model     string      `json:"model,omitempty"`
	Instances [][]float64 `json:"instances"`
}

type rpcResponse struct {
	Probabilities [][]float64 `json:"probabilities"`
}

// PredictProba 发送单行输入，返回该行的类别概率分布。
func (m *RPCModel) PredictProba(ctx context.Context, vector []float64) ([]float64, error) {
	client := m.Client
	if client == nil {
		client = &http.Client{Timeout: m.Timeout}
	}

	body, err := json.Marshal(rpcRequest{Model: m.name, Instances: [][]float64{vector}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(msg))
	}

	var result rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Probabilities) != 1 {
		return nil, fmt.Errorf("response rows mismatch: expected 1, got %d", len(result.Probabilities))
	}
	return result.Probabilities[0], nil
}

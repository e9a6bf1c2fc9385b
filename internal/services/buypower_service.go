package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// BuyPowerService is the BuyPower aggregator client
type BuyPowerService struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewBuyPowerService creates a new BuyPower client
func NewBuyPowerService(baseURL, token string) *BuyPowerService {
	return &BuyPowerService{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type buyPowerMeterResponse struct {
	Error bool `json:"error"`
	Data  struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"data"`
	Message string `json:"message"`
}

type buyPowerVendResponse struct {
	Error bool `json:"error"`
	Data  struct {
		Token string `json:"token"`
	} `json:"data"`
	Token   string `json:"token"`
	Units   string `json:"units"`
	Message string `json:"message"`
}

type buyPowerDiscoStatusResponse struct {
	Error   bool   `json:"error"`
	Data    bool   `json:"data"`
	Message string `json:"message"`
}

// ValidateMeter checks a meter number with BuyPower and returns the customer
// name and address the disco has on file.
func (s *BuyPowerService) ValidateMeter(ctx context.Context, disco, meterNumber, vendType string) (*MeterInfo, error) {
	endpoint := fmt.Sprintf("%s/check/meter?meter=%s&disco=%s&vendType=%s",
		s.baseURL, url.QueryEscape(meterNumber), url.QueryEscape(disco), url.QueryEscape(vendType))

	var resp buyPowerMeterResponse
	if err := s.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, fmt.Errorf("buypower meter validation rejected: %s", resp.Message)
	}

	return &MeterInfo{
		Name:    resp.Data.Name,
		Address: resp.Data.Address,
	}, nil
}

// VendToken purchases a token from BuyPower
func (s *BuyPowerService) VendToken(ctx context.Context, req VendRequest) (*VendResult, error) {
	payload := map[string]interface{}{
		"orderId":     req.TransactionID,
		"meter":       req.MeterNumber,
		"disco":       req.Disco,
		"amount":      req.Amount,
		"phone":       req.Phone,
		"vendType":    req.VendType,
		"paymentType": "B2B",
		"vertical":    "ELECTRICITY",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vend request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/vend", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.token)

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("buypower vend request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("buypower vend returned status %d", httpResp.StatusCode)
	}

	var resp buyPowerVendResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse vend response: %w", err)
	}
	if resp.Error {
		return nil, fmt.Errorf("buypower vend rejected: %s", resp.Message)
	}

	return &VendResult{
		Token:       resp.Data.Token,
		TokenNumber: resp.Token,
		Units:       resp.Units,
	}, nil
}

// CheckDiscoUp reports whether BuyPower considers the disco live
func (s *BuyPowerService) CheckDiscoUp(ctx context.Context, disco string) (bool, error) {
	endpoint := fmt.Sprintf("%s/discos/status?disco=%s", s.baseURL, url.QueryEscape(disco))

	var resp buyPowerDiscoStatusResponse
	if err := s.get(ctx, endpoint, &resp); err != nil {
		return false, err
	}
	if resp.Error {
		return false, nil
	}
	return resp.Data, nil
}

// FetchDiscos lists the discos available through BuyPower
func (s *BuyPowerService) FetchDiscos(ctx context.Context) ([]string, error) {
	var discos []string
	if err := s.get(ctx, s.baseURL+"/discos", &discos); err != nil {
		return nil, err
	}
	return discos, nil
}

func (s *BuyPowerService) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("buypower request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("buypower returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BaxiService is the Baxi aggregator client
type BaxiService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewBaxiService creates a new Baxi client
func NewBaxiService(baseURL, apiKey string) *BaxiService {
	return &BaxiService{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type baxiVerifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"data"`
	Message string `json:"message"`
}

type baxiVendResponse struct {
	Status string `json:"status"`
	Data   struct {
		RawOutput struct {
			Token string `json:"token"`
			Units string `json:"units"`
		} `json:"rawOutput"`
		TransactionReference string `json:"transactionReference"`
	} `json:"data"`
	Message string `json:"message"`
}

type baxiDiscosResponse struct {
	Status string `json:"status"`
	Data   struct {
		Providers []struct {
			ServiceType string `json:"service_type"`
			Name        string `json:"name"`
		} `json:"providers"`
	} `json:"data"`
	Message string `json:"message"`
}

// ValidateMeter verifies a meter number with Baxi
func (s *BaxiService) ValidateMeter(ctx context.Context, disco, meterNumber, vendType string) (*MeterInfo, error) {
	payload := map[string]string{
		"account_number": meterNumber,
		"service_type":   baxiServiceType(disco, vendType),
	}

	var resp baxiVerifyResponse
	if err := s.post(ctx, "/services/namefinder/query", payload, &resp); err != nil {
		return nil, err
	}
	if !strings.EqualFold(resp.Status, "success") {
		return nil, fmt.Errorf("baxi meter validation rejected: %s", resp.Message)
	}

	return &MeterInfo{
		Name:    resp.Data.Name,
		Address: resp.Data.Address,
	}, nil
}

// VendToken purchases a token from Baxi
func (s *BaxiService) VendToken(ctx context.Context, req VendRequest) (*VendResult, error) {
	payload := map[string]string{
		"agentReference": req.TransactionID,
		"account_number": req.MeterNumber,
		"service_type":   baxiServiceType(req.Disco, req.VendType),
		"amount":         req.Amount,
		"phone":          req.Phone,
	}

	var resp baxiVendResponse
	if err := s.post(ctx, "/services/electricity/request", payload, &resp); err != nil {
		return nil, err
	}
	if !strings.EqualFold(resp.Status, "success") {
		return nil, fmt.Errorf("baxi vend rejected: %s", resp.Message)
	}

	return &VendResult{
		Token:       resp.Data.RawOutput.Token,
		TokenNumber: resp.Data.TransactionReference,
		Units:       resp.Data.RawOutput.Units,
	}, nil
}

// CheckDiscoUp reports whether the disco appears in Baxi's provider list
func (s *BaxiService) CheckDiscoUp(ctx context.Context, disco string) (bool, error) {
	discos, err := s.FetchDiscos(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range discos {
		if strings.EqualFold(d, disco) {
			return true, nil
		}
	}
	return false, nil
}

// FetchDiscos lists the electricity billers available through Baxi
func (s *BaxiService) FetchDiscos(ctx context.Context) ([]string, error) {
	endpoint := s.baseURL + "/services/electricity/billers"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)

	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("baxi request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("baxi returned status %d", httpResp.StatusCode)
	}

	var resp baxiDiscosResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	discos := make([]string, 0, len(resp.Data.Providers))
	for _, p := range resp.Data.Providers {
		discos = append(discos, p.ServiceType)
	}
	return discos, nil
}

func (s *BaxiService) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("baxi request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("baxi returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// baxiServiceType maps a disco slug and vend type to Baxi's service_type
// naming, e.g. ikedc + PREPAID -> ikeja_electric_prepaid.
func baxiServiceType(disco, vendType string) string {
	return fmt.Sprintf("%s_%s", strings.ToLower(disco), strings.ToLower(vendType))
}

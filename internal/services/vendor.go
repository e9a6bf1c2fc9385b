package services

import "context"

// Electricity providers supported by the platform.
const (
	ProviderBuyPower = "BUYPOWERNG"
	ProviderBaxi     = "BAXI"
)

// MeterInfo is the customer detail a disco reports for a validated meter.
type MeterInfo struct {
	Name    string
	Address string
}

// VendRequest carries the parameters of a token purchase.
type VendRequest struct {
	TransactionID string
	MeterNumber   string
	Disco         string
	Amount        string
	Phone         string
	VendType      string
}

// VendResult is the issued token as returned by the upstream aggregator.
type VendResult struct {
	Token       string
	TokenNumber string
	Units       string
}

// VendorBackend is a disco aggregator. Implementations are selected once at
// startup and passed to the controllers explicitly.
type VendorBackend interface {
	ValidateMeter(ctx context.Context, disco, meterNumber, vendType string) (*MeterInfo, error)
	VendToken(ctx context.Context, req VendRequest) (*VendResult, error)
	CheckDiscoUp(ctx context.Context, disco string) (bool, error)
	FetchDiscos(ctx context.Context) ([]string, error)
}

// SelectBackend picks the default vend backend for the configured provider.
func SelectBackend(provider string, buyPower, baxi VendorBackend) VendorBackend {
	if provider == ProviderBaxi {
		return baxi
	}
	return buyPower
}

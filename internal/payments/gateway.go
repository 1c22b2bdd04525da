package payments

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/agrimarket/agrimarket-backend/pkg/config"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ChargeRequest carries the details sent to the mobile money provider.
type ChargeRequest struct {
	Provider    enums.MobileMoneyProvider
	PhoneNumber string
	Amount      decimal.Decimal
	Reference   string
}

// ChargeResult is the provider's settlement outcome.
type ChargeResult struct {
	Success         bool
	TransactionID   string
	ResponseCode    string
	ResponseMessage string
}

// Gateway abstracts the mobile money provider integration.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// MockGateway simulates a mobile money provider with a configurable success
// rate and settlement delay. It never performs network calls.
type MockGateway struct {
	successRate float64
	delay       time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockGateway constructs the simulated provider from payment config.
func NewMockGateway(cfg config.PaymentConfig) *MockGateway {
	rate := cfg.MobileMoneySuccessRate
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return &MockGateway{
		successRate: rate,
		delay:       cfg.MobileMoneyDelay,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Charge simulates provider settlement. The context deadline bounds the delay.
func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if !req.Provider.IsValid() {
		return nil, fmt.Errorf("unknown mobile money provider %q", req.Provider)
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("amount must be positive")
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.jitteredDelay())
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if g.roll() < g.successRate {
		return &ChargeResult{
			Success:         true,
			TransactionID:   NewMobileMoneyTransactionID(),
			ResponseCode:    "00",
			ResponseMessage: "Payment successful",
		}, nil
	}
	return &ChargeResult{
		Success:         false,
		ResponseCode:    "91",
		ResponseMessage: "Payment declined by provider",
	}, nil
}

func (g *MockGateway) roll() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

func (g *MockGateway) jitteredDelay() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	// between half and full configured delay
	half := g.delay / 2
	return half + time.Duration(g.rng.Int63n(int64(half)+1))
}

// NewMobileMoneyTransactionID mints a provider-style settlement id.
func NewMobileMoneyTransactionID() string {
	return fmt.Sprintf("MM-%d-%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// NewCashOnDeliveryTransactionID mints a settlement id for COD orders.
func NewCashOnDeliveryTransactionID() string {
	return fmt.Sprintf("COD-%d-%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// NewPendingTransactionID mints a placeholder id for unsettled payments.
func NewPendingTransactionID() string {
	return fmt.Sprintf("TXN-%d-%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

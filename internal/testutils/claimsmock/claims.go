package claimsmock

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/Layr-Labs/disputectl/internal/claims"
)

// MockClaims is an in-memory claims handler. Transactions are recorded by
// method name and reads are served from Claims and Allowances. CreateTx
// stores the new claim under NextID with Requester as its requester.
type MockClaims struct {
	Handler   common.Address
	Token     common.Address
	Requester common.Address

	Claims     map[uint64]*claims.Claim
	Allowances map[common.Address]decimal.Decimal
	NextID     uint64
	GetErr     error
	// AllowanceErr fails every allowance read when set.
	AllowanceErr error

	mu    sync.Mutex
	built []string
}

func New(handler, token, requester common.Address) *MockClaims {
	return &MockClaims{
		Handler:    handler,
		Token:      token,
		Requester:  requester,
		Claims:     map[uint64]*claims.Claim{},
		Allowances: map[common.Address]decimal.Decimal{},
		NextID:     4,
	}
}

// Built returns the methods of every transaction built so far.
func (m *MockClaims) Built() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.built...)
}

func (m *MockClaims) record(method string, to common.Address) (claims.Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.built = append(m.built, method)
	return claims.Tx{Method: method, To: to, Data: []byte(method)}, nil
}

func (m *MockClaims) GetClaim(ctx context.Context, id uint64) (*claims.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	c, ok := m.Claims[id]
	if !ok {
		return nil, claims.ErrClaimNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockClaims) GetAllowance(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AllowanceErr != nil {
		return decimal.Decimal{}, m.AllowanceErr
	}
	return m.Allowances[owner], nil
}

func (m *MockClaims) AllowTx(tokens uint64) (claims.Tx, error) {
	return m.record("approve", m.Token)
}

func (m *MockClaims) ClearAllowanceTx() (claims.Tx, error) {
	return m.record("approve", m.Token)
}

func (m *MockClaims) CreateTx(payload claims.CreateClaimPayload) (claims.Tx, error) {
	m.mu.Lock()
	m.Claims[m.NextID] = &claims.Claim{
		ID:               m.NextID,
		State:            claims.AwaitingAcceptance,
		DealID:           payload.DealID,
		RequesterID:      payload.RequesterID,
		RespondentID:     payload.RespondentID,
		RequesterAddress: m.Requester,
		RequesterStaked:  decimal.NewFromInt(int64(payload.Tokens)),
		ReasonNote:       payload.Reason,
		ModifiedAt:       time.Now(),
	}
	m.mu.Unlock()
	return m.record("create", m.Handler)
}

func (m *MockClaims) AcceptTx(id uint64) (claims.Tx, error) {
	return m.record("accept", m.Handler)
}

func (m *MockClaims) ResolveTx(id uint64, note string) (claims.Tx, error) {
	return m.record("resolve", m.Handler)
}

func (m *MockClaims) CloseTx(id uint64) (claims.Tx, error) {
	return m.record("close", m.Handler)
}

func (m *MockClaims) ClaimIDFromCreateReceipt(receipt *types.Receipt) (uint64, error) {
	if receipt == nil {
		return 0, claims.ErrClaimIDNotInReceipt
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NextID, nil
}

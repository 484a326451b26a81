// Package claims builds and reads calls against the claims handler contract
// and its staking token.
package claims

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/contracts"
)

var (
	ErrClaimNotFound       = errors.New("claim not found")
	ErrClaimIDNotInReceipt = errors.New("receipt does not contain a ClaimChanged event from the claims handler")
)

// ContractCaller executes read-only calls; *chain.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

type Config struct {
	ClaimsHandlerAddress common.Address
	TokenAddress         common.Address
	TokenDecimals        int32
}

type Manager struct {
	config     Config
	handlerABI abi.ABI
	tokenABI   abi.ABI
	caller     ContractCaller
	logger     *zap.Logger
}

type rawClaim struct {
	State             uint8
	Modified          uint32
	DealId            *big.Int
	ReasonNote        string
	RequesterId       string
	RequesterAddress  common.Address
	RequesterStaked   *big.Int
	RespondentId      string
	RespondentAddress common.Address
	RespondentStaked  *big.Int
	ResolutionNote    string
}

func NewManager(cfg *Config, caller ContractCaller, logger *zap.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if caller == nil {
		return nil, fmt.Errorf("contract caller cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.ClaimsHandlerAddress == (common.Address{}) {
		return nil, fmt.Errorf("claims handler address is required")
	}
	if cfg.TokenAddress == (common.Address{}) {
		return nil, fmt.Errorf("token address is required")
	}

	handlerABI, err := contracts.ParseClaimsHandlerABI()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse claims handler ABI")
	}
	tokenABI, err := contracts.ParseERC20ABI()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token ABI")
	}

	c := *cfg
	if c.TokenDecimals == 0 {
		c.TokenDecimals = TokenDecimals
	}

	return &Manager{
		config:     c,
		handlerABI: handlerABI,
		tokenABI:   tokenABI,
		caller:     caller,
		logger:     logger,
	}, nil
}

func (m *Manager) ClaimsHandlerAddress() common.Address {
	return m.config.ClaimsHandlerAddress
}

func (m *Manager) TokenAddress() common.Address {
	return m.config.TokenAddress
}

func (m *Manager) ClaimsCount(ctx context.Context) (uint64, error) {
	out, err := m.call(ctx, m.handlerABI, m.config.ClaimsHandlerAddress, "getClaimsCount")
	if err != nil {
		return 0, err
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, errors.Errorf("unexpected getClaimsCount output type %T", out[0])
	}
	return count.Uint64(), nil
}

func (m *Manager) GetClaim(ctx context.Context, id uint64) (*Claim, error) {
	count, err := m.ClaimsCount(ctx)
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, errors.Wrapf(ErrClaimNotFound, "claim %d (claims count %d)", id, count)
	}

	data, err := m.handlerABI.Pack("claims", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack claims call")
	}
	handler := m.config.ClaimsHandlerAddress
	out, err := m.caller.CallContract(ctx, ethereum.CallMsg{To: &handler, Data: data})
	if err != nil {
		return nil, err
	}

	var raw rawClaim
	if err := m.handlerABI.UnpackIntoInterface(&raw, "claims", out); err != nil {
		return nil, errors.Wrap(err, "failed to unpack claim")
	}

	claim := &Claim{
		ID:                id,
		State:             ClaimStatus(raw.State),
		DealID:            bigToUint64(raw.DealId),
		ModifiedAt:        time.Unix(int64(raw.Modified), 0).UTC(),
		RequesterID:       raw.RequesterId,
		RespondentID:      raw.RespondentId,
		RequesterAddress:  raw.RequesterAddress,
		RespondentAddress: raw.RespondentAddress,
		RequesterStaked:   FromBaseUnits(raw.RequesterStaked, m.config.TokenDecimals),
		RespondentStaked:  FromBaseUnits(raw.RespondentStaked, m.config.TokenDecimals),
		ReasonNote:        raw.ReasonNote,
		ResolutionNote:    raw.ResolutionNote,
	}

	m.logger.Sugar().Debugw("Loaded claim",
		"claimId", id,
		"state", claim.State.String(),
		"dealId", claim.DealID,
	)
	return claim, nil
}

// GetAllowance returns how many whole tokens owner lets the claims handler transfer.
func (m *Manager) GetAllowance(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	out, err := m.call(ctx, m.tokenABI, m.config.TokenAddress, "allowance", owner, m.config.ClaimsHandlerAddress)
	if err != nil {
		return decimal.Zero, err
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, errors.Errorf("unexpected allowance output type %T", out[0])
	}
	return FromBaseUnits(amount, m.config.TokenDecimals), nil
}

func (m *Manager) AllowTx(tokens uint64) (Tx, error) {
	amount := ToBaseUnits(decimal.NewFromInt(int64(tokens)), m.config.TokenDecimals)
	return m.tokenTx("approve", m.config.ClaimsHandlerAddress, amount)
}

func (m *Manager) ClearAllowanceTx() (Tx, error) {
	return m.tokenTx("approve", m.config.ClaimsHandlerAddress, big.NewInt(0))
}

func (m *Manager) CreateTx(payload CreateClaimPayload) (Tx, error) {
	stake := ToBaseUnits(decimal.NewFromInt(int64(payload.Tokens)), m.config.TokenDecimals)
	return m.handlerTx("create",
		new(big.Int).SetUint64(payload.DealID),
		payload.Reason,
		payload.RequesterID,
		payload.RespondentID,
		stake,
	)
}

func (m *Manager) AcceptTx(id uint64) (Tx, error) {
	return m.handlerTx("accept", new(big.Int).SetUint64(id))
}

func (m *Manager) ResolveTx(id uint64, resolutionNote string) (Tx, error) {
	return m.handlerTx("resolve", new(big.Int).SetUint64(id), resolutionNote)
}

func (m *Manager) CloseTx(id uint64) (Tx, error) {
	return m.handlerTx("close", new(big.Int).SetUint64(id))
}

// ClaimIDFromCreateReceipt finds the claim index announced by the claims handler.
func (m *Manager) ClaimIDFromCreateReceipt(receipt *types.Receipt) (uint64, error) {
	if receipt == nil {
		return 0, errors.New("receipt is nil")
	}
	event, ok := m.handlerABI.Events[contracts.ClaimChangedEvent]
	if !ok {
		return 0, errors.New("claims handler ABI has no ClaimChanged event")
	}

	for _, lg := range receipt.Logs {
		if lg == nil || lg.Address != m.config.ClaimsHandlerAddress {
			continue
		}
		if len(lg.Topics) < 4 || lg.Topics[0] != event.ID {
			continue
		}

		claimIdx := lg.Topics[3].Big()
		if len(lg.Data) > 0 {
			if values, err := m.handlerABI.Unpack(contracts.ClaimChangedEvent, lg.Data); err == nil && len(values) == 1 {
				m.logger.Sugar().Debugw("Decoded ClaimChanged event",
					"claimIdx", claimIdx.String(),
					"state", values[0],
					"txHash", receipt.TxHash.Hex(),
				)
			}
		}
		return claimIdx.Uint64(), nil
	}

	return 0, ErrClaimIDNotInReceipt
}

func (m *Manager) tokenTx(method string, args ...interface{}) (Tx, error) {
	data, err := m.tokenABI.Pack(method, args...)
	if err != nil {
		return Tx{}, errors.Wrapf(err, "failed to pack %s", method)
	}
	return Tx{Method: method, To: m.config.TokenAddress, Data: data}, nil
}

func (m *Manager) handlerTx(method string, args ...interface{}) (Tx, error) {
	data, err := m.handlerABI.Pack(method, args...)
	if err != nil {
		return Tx{}, errors.Wrapf(err, "failed to pack %s", method)
	}
	return Tx{Method: method, To: m.config.ClaimsHandlerAddress, Data: data}, nil
}

func (m *Manager) call(ctx context.Context, contract abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s", method)
	}
	out, err := m.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data})
	if err != nil {
		return nil, err
	}
	values, err := contract.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s", method)
	}
	if len(values) == 0 {
		return nil, errors.Errorf("%s returned no values", method)
	}
	return values, nil
}

func bigToUint64(v *big.Int) uint64 {
	if v == nil || !v.IsUint64() {
		return 0
	}
	return v.Uint64()
}

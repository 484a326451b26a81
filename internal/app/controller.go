// Package app is the dispute flow controller: it holds the current claim and
// allowance and drives every user operation through the orchestrator.
package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/claims"
	"github.com/Layr-Labs/disputectl/internal/forms"
	"github.com/Layr-Labs/disputectl/internal/orchestrator"
	"github.com/Layr-Labs/disputectl/internal/storage"
)

// PreconditionError is returned when the selected wallet or the current claim
// does not allow the requested operation. It is raised before any transaction
// is built.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func precondition(format string, args ...interface{}) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// SavedClaimError reports that the claim remembered from a previous session
// could not be reloaded. The session is otherwise usable.
type SavedClaimError struct {
	ID  uint64
	Err error
}

func (e *SavedClaimError) Error() string {
	return fmt.Sprintf("could not reload saved claim %d: %v", e.ID, e.Err)
}

func (e *SavedClaimError) Unwrap() error {
	return e.Err
}

var errNoClaim = &PreconditionError{Message: "no claim loaded, create one or run `disputectl claim show <id>`"}

// ClaimsClient is the subset of *claims.Manager the controller uses.
type ClaimsClient interface {
	GetClaim(ctx context.Context, id uint64) (*claims.Claim, error)
	GetAllowance(ctx context.Context, owner common.Address) (decimal.Decimal, error)
	AllowTx(tokens uint64) (claims.Tx, error)
	ClearAllowanceTx() (claims.Tx, error)
	CreateTx(payload claims.CreateClaimPayload) (claims.Tx, error)
	AcceptTx(id uint64) (claims.Tx, error)
	ResolveTx(id uint64, resolutionNote string) (claims.Tx, error)
	CloseTx(id uint64) (claims.Tx, error)
	ClaimIDFromCreateReceipt(receipt *types.Receipt) (uint64, error)
}

// Runner executes wallet-backed operations; *orchestrator.Orchestrator
// satisfies it.
type Runner interface {
	Run(ctx context.Context, name string, action orchestrator.Action) orchestrator.Outcome
	SendAndWait(ctx context.Context, from common.Address, tx claims.Tx) (*types.Receipt, error)
	Busy() bool
}

// State is a snapshot of what the user sees.
type State struct {
	Loading   bool
	Claim     *claims.Claim
	Allowance *decimal.Decimal
}

// WholeAllowance is the allowance in whole tokens, as the forms expect it.
// Allowances beyond the uint64 range, such as an unlimited approval,
// saturate at math.MaxUint64.
func (s State) WholeAllowance() *uint64 {
	if s.Allowance == nil {
		return nil
	}
	v := uint64(0)
	if s.Allowance.IsPositive() {
		whole := s.Allowance.Floor().BigInt()
		if whole.IsUint64() {
			v = whole.Uint64()
		} else {
			v = math.MaxUint64
		}
	}
	return &v
}

type Controller struct {
	claims ClaimsClient
	runner Runner
	store  storage.ClaimStore
	logger *zap.Logger

	mu        sync.Mutex
	claim     *claims.Claim
	allowance *decimal.Decimal
}

func NewController(c ClaimsClient, r Runner, store storage.ClaimStore, logger *zap.Logger) (*Controller, error) {
	if c == nil {
		return nil, fmt.Errorf("claims client cannot be nil")
	}
	if r == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("claim store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Controller{
		claims: c,
		runner: r,
		store:  store,
		logger: logger,
	}, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{Loading: c.runner.Busy()}
	if c.claim != nil {
		claim := *c.claim
		s.Claim = &claim
	}
	if c.allowance != nil {
		a := *c.allowance
		s.Allowance = &a
	}
	return s
}

// Panels returns which claim panels are enabled at now.
func (c *Controller) Panels(now time.Time) forms.Panels {
	s := c.State()
	return forms.PanelsFor(s.Claim, s.WholeAllowance(), now)
}

// Start refreshes the allowance and reloads the claim from the previous
// session, if any. A failed reload is reported as a *SavedClaimError joined
// with any allowance error.
func (c *Controller) Start(ctx context.Context) error {
	var errs []error
	if err := c.RefreshAllowance(ctx); err != nil {
		errs = append(errs, err)
	}

	id, err := c.store.LoadClaimID(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.logger.Debug("No claim from a previous session")
	case err != nil:
		errs = append(errs, fmt.Errorf("failed to read saved claim id: %w", err))
	default:
		if err := c.LoadClaim(ctx, id); err != nil {
			errs = append(errs, &SavedClaimError{ID: id, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) LoadClaim(ctx context.Context, id uint64) error {
	return c.run(ctx, "load claim", func(ctx context.Context, _ common.Address) error {
		return c.loadClaim(ctx, id)
	})
}

// SelectClaim loads a claim and remembers it for the next session.
func (c *Controller) SelectClaim(ctx context.Context, id uint64) error {
	return c.run(ctx, "select claim", func(ctx context.Context, _ common.Address) error {
		if err := c.loadClaim(ctx, id); err != nil {
			return err
		}
		return c.store.SaveClaimID(ctx, id)
	})
}

func (c *Controller) RefreshAllowance(ctx context.Context) error {
	return c.run(ctx, "refresh allowance", c.refreshAllowance)
}

func (c *Controller) ApproveAllowance(ctx context.Context, tokens uint64) error {
	if tokens == 0 {
		return precondition("amount to approve must be positive")
	}
	return c.run(ctx, "approve allowance", func(ctx context.Context, account common.Address) error {
		tx, err := c.claims.AllowTx(tokens)
		if err != nil {
			return err
		}
		if _, err := c.runner.SendAndWait(ctx, account, tx); err != nil {
			return err
		}
		return c.refreshAllowance(ctx, account)
	})
}

func (c *Controller) ClearAllowance(ctx context.Context) error {
	return c.run(ctx, "clear allowance", func(ctx context.Context, account common.Address) error {
		tx, err := c.claims.ClearAllowanceTx()
		if err != nil {
			return err
		}
		if _, err := c.runner.SendAndWait(ctx, account, tx); err != nil {
			return err
		}
		return c.refreshAllowance(ctx, account)
	})
}

// CreateClaim opens a dispute and makes it the current claim. The id is
// returned once the receipt is decoded, even if reloading the claim fails.
func (c *Controller) CreateClaim(ctx context.Context, payload claims.CreateClaimPayload) (uint64, error) {
	var claimID uint64
	err := c.run(ctx, "create claim", func(ctx context.Context, account common.Address) error {
		tx, err := c.claims.CreateTx(payload)
		if err != nil {
			return err
		}
		receipt, err := c.runner.SendAndWait(ctx, account, tx)
		if err != nil {
			return err
		}

		id, err := c.claims.ClaimIDFromCreateReceipt(receipt)
		if err != nil {
			return err
		}
		claimID = id

		if err := c.store.SaveClaimID(ctx, id); err != nil {
			c.logger.Warn("Failed to remember claim id", zap.Uint64("claimId", id), zap.Error(err))
		}

		if err := c.loadClaim(ctx, id); err != nil {
			return err
		}
		return c.refreshAllowance(ctx, account)
	})
	return claimID, err
}

func (c *Controller) AcceptClaim(ctx context.Context) error {
	return c.run(ctx, "accept claim", func(ctx context.Context, account common.Address) error {
		claim, err := c.currentClaim()
		if err != nil {
			return err
		}
		if claim.RequesterAddress == account {
			return precondition("please select a different wallet for the respondent, it cannot be the same as the requester's")
		}

		tx, err := c.claims.AcceptTx(claim.ID)
		if err != nil {
			return err
		}
		if _, err := c.runner.SendAndWait(ctx, account, tx); err != nil {
			return err
		}
		if err := c.loadClaim(ctx, claim.ID); err != nil {
			return err
		}
		return c.refreshAllowance(ctx, account)
	})
}

func (c *Controller) ResolveClaim(ctx context.Context, resolution string) error {
	note, err := forms.ValidateResolution(resolution)
	if err != nil {
		return err
	}
	return c.run(ctx, "resolve claim", func(ctx context.Context, account common.Address) error {
		claim, err := c.currentClaim()
		if err != nil {
			return err
		}
		if claim.RespondentAddress != account {
			return precondition("please select the respondent's wallet")
		}

		tx, err := c.claims.ResolveTx(claim.ID, note)
		if err != nil {
			return err
		}
		if _, err := c.runner.SendAndWait(ctx, account, tx); err != nil {
			return err
		}
		return c.loadClaim(ctx, claim.ID)
	})
}

func (c *Controller) CloseClaim(ctx context.Context) error {
	return c.run(ctx, "close claim", func(ctx context.Context, account common.Address) error {
		claim, err := c.currentClaim()
		if err != nil {
			return err
		}
		if claim.RequesterAddress != account {
			return precondition("please select the requester's wallet")
		}

		tx, err := c.claims.CloseTx(claim.ID)
		if err != nil {
			return err
		}
		if _, err := c.runner.SendAndWait(ctx, account, tx); err != nil {
			return err
		}
		return c.loadClaim(ctx, claim.ID)
	})
}

func (c *Controller) run(ctx context.Context, name string, action orchestrator.Action) error {
	return c.runner.Run(ctx, name, action).Err
}

func (c *Controller) currentClaim() (*claims.Claim, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claim == nil {
		return nil, errNoClaim
	}
	claim := *c.claim
	return &claim, nil
}

func (c *Controller) loadClaim(ctx context.Context, id uint64) error {
	claim, err := c.claims.GetClaim(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load claim %d: %w", id, err)
	}

	c.mu.Lock()
	c.claim = claim
	c.mu.Unlock()

	c.logger.Sugar().Debugw("Loaded claim", "claimId", id, "state", claim.State.String())
	return nil
}

func (c *Controller) refreshAllowance(ctx context.Context, account common.Address) error {
	allowance, err := c.claims.GetAllowance(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to fetch allowance: %w", err)
	}

	c.mu.Lock()
	c.allowance = &allowance
	c.mu.Unlock()
	return nil
}

package treasury

import (
	"context"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
)

// AccountService handles money account business operations
type AccountService struct {
	accountRepo    treasury.MoneyAccountRepository
	movementRepo   treasury.MoneyMovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo treasury.MoneyAccountRepository, movementRepo treasury.MoneyMovementRepository, txScope TransactionScope) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new money account
func (s *AccountService) Create(ctx context.Context, orgID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := treasury.NewMoneyAccount(orgID, req.Name, treasury.AccountType(req.Type),
		valueobject.NewMoneyZMW(req.OpeningBalance))
	if err != nil {
		return nil, err
	}
	account.AllowOverdraw = req.AllowOverdraw

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, orgID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForOrg(ctx, accountID, orgID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// Deposit posts a manual deposit into an account
func (s *AccountService) Deposit(ctx context.Context, orgID, accountID uuid.UUID, req PostMovementRequest) (*MovementResponse, error) {
	return s.post(ctx, orgID, accountID, req, treasury.DirectionIn)
}

// Withdraw posts a manual withdrawal from an account
func (s *AccountService) Withdraw(ctx context.Context, orgID, accountID uuid.UUID, req PostMovementRequest) (*MovementResponse, error) {
	return s.post(ctx, orgID, accountID, req, treasury.DirectionOut)
}

func (s *AccountService) post(ctx context.Context, orgID, accountID uuid.UUID, req PostMovementRequest, direction treasury.Direction) (*MovementResponse, error) {
	var movement *treasury.MoneyMovement
	var account *treasury.MoneyAccount

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.AccountRepo().FindByIDForOrg(ctx, accountID, orgID)
		if err != nil {
			return err
		}

		amount := valueobject.NewMoneyZMW(req.Amount)
		if direction == treasury.DirectionIn {
			movement, err = account.Deposit(amount, treasury.ReferenceTypeManual, nil, req.Notes)
		} else {
			movement, err = account.Withdraw(amount, treasury.ReferenceTypeManual, nil, req.Notes)
		}
		if err != nil {
			return err
		}

		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)

	response := ToMovementResponse(movement)
	return &response, nil
}

// CheckLedger replays an account's full movement history over its
// opening balance and compares the result against the stored balance
func (s *AccountService) CheckLedger(ctx context.Context, orgID, accountID uuid.UUID) (*LedgerCheckResponse, error) {
	account, err := s.accountRepo.FindByIDForOrg(ctx, accountID, orgID)
	if err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.FindByAccountForOrg(ctx, accountID, orgID, shared.Filter{
		Page:     1,
		PageSize: 10000,
		OrderBy:  "created_at",
		OrderDir: "asc",
		Filters:  map[string]interface{}{"account_id": accountID},
	})
	if err != nil {
		return nil, err
	}

	replayed := treasury.ReplayBalance(account.OpeningBalance, movements)

	return &LedgerCheckResponse{
		AccountID:       account.ID,
		OpeningBalance:  account.OpeningBalance,
		CurrentBalance:  account.Balance,
		ReplayedBalance: replayed,
		Drift:           account.Balance.Sub(replayed),
		Consistent:      replayed.Equal(account.Balance),
		MovementsCount:  len(movements),
	}, nil
}

// Reconcile flags a movement as matched against a bank statement
func (s *AccountService) Reconcile(ctx context.Context, orgID, movementID uuid.UUID) error {
	return s.movementRepo.MarkReconciled(ctx, movementID, orgID)
}

// Deactivate closes an empty account
func (s *AccountService) Deactivate(ctx context.Context, orgID, accountID uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForOrg(ctx, accountID, orgID)
	if err != nil {
		return err
	}

	if err := account.Deactivate(); err != nil {
		return err
	}

	return s.accountRepo.SaveWithLock(ctx, account)
}

// List retrieves accounts with filtering and pagination
func (s *AccountService) List(ctx context.Context, orgID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := buildAccountFilter(filter)

	accounts, err := s.accountRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.accountRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = ToAccountResponse(a)
	}

	return responses, total, nil
}

// ListMovements retrieves an account's ledger
func (s *AccountService) ListMovements(ctx context.Context, orgID, accountID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := buildTreasuryMovementFilter(filter)
	domainFilter.Filters["account_id"] = accountID

	movements, err := s.movementRepo.FindByAccountForOrg(ctx, accountID, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.movementRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = ToMovementResponse(m)
	}

	return responses, total, nil
}

func buildAccountFilter(filter AccountListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	return domainFilter
}

func buildTreasuryMovementFilter(filter MovementListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Direction != "" {
		domainFilter.Filters["direction"] = filter.Direction
	}
	if filter.RefType != "" {
		domainFilter.Filters["ref_type"] = filter.RefType
	}
	if filter.Reconciled != nil {
		domainFilter.Filters["reconciled"] = *filter.Reconciled
	}
	return domainFilter
}

func (s *AccountService) publishEvents(ctx context.Context, account *treasury.MoneyAccount) {
	if s.eventPublisher == nil || account == nil {
		return
	}
	events := account.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	account.ClearDomainEvents()
}

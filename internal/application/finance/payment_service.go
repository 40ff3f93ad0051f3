package finance

import (
	"context"
	"time"

	"github.com/doaddy/backend/internal/domain/finance"
	"github.com/doaddy/backend/internal/domain/partner"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/domain/shared/valueobject"
	"github.com/doaddy/backend/internal/domain/treasury"
	"github.com/google/uuid"
)

// PaymentService handles customer payment business operations
type PaymentService struct {
	paymentRepo    finance.PaymentRepository
	customerRepo   partner.CustomerRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo finance.PaymentRepository, customerRepo partner.CustomerRepository, txScope TransactionScope) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Receive records a customer payment and deposits it into the target
// account in one transaction
func (s *PaymentService) Receive(ctx context.Context, orgID uuid.UUID, req ReceivePaymentRequest) (*PaymentResponse, error) {
	if _, err := s.customerRepo.FindByIDForOrg(ctx, orgID, req.CustomerID); err != nil {
		return nil, err
	}

	var payment *finance.Payment

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.PaymentRepo().GeneratePaymentNumber(ctx, orgID)
		if err != nil {
			return err
		}

		paymentDate := time.Now()
		if req.PaymentDate != nil {
			paymentDate = *req.PaymentDate
		}

		payment, err = finance.NewPayment(orgID, req.CustomerID, req.AccountID, number,
			finance.PaymentMethod(req.Method), valueobject.NewMoneyZMW(req.Amount),
			paymentDate, req.Reference, req.Notes)
		if err != nil {
			return err
		}

		account, err := repos.AccountRepo().FindByIDForOrg(ctx, req.AccountID, orgID)
		if err != nil {
			return err
		}
		movement, err := account.Deposit(payment.GetAmountMoney(), treasury.ReferenceTypePayment, &payment.ID, payment.Number)
		if err != nil {
			return err
		}
		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		if err := repos.MoneyMovementRepo().Save(ctx, movement); err != nil {
			return err
		}

		return repos.PaymentRepo().Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Allocate applies part of a payment to an invoice. The payment's
// allocation record and the invoice's paid amount move together.
func (s *PaymentService) Allocate(ctx context.Context, orgID, paymentID uuid.UUID, req AllocatePaymentRequest) (*PaymentResponse, error) {
	var payment *finance.Payment

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByIDForOrg(ctx, paymentID, orgID)
		if err != nil {
			return err
		}

		invoice, err := repos.InvoiceRepo().FindByIDForOrg(ctx, req.InvoiceID, orgID)
		if err != nil {
			return err
		}
		if invoice.CustomerID != payment.CustomerID {
			return shared.NewDomainError("CUSTOMER_MISMATCH",
				"Invoice belongs to a different customer than the payment")
		}

		amount := valueobject.NewMoneyZMW(req.Amount)

		if err := invoice.ApplyPayment(amount); err != nil {
			return err
		}
		if err := payment.AllocateToInvoice(invoice.ID, invoice.Number, amount); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		return repos.PaymentRepo().SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Deallocate removes a payment's allocation to an invoice, restoring
// the invoice's outstanding balance
func (s *PaymentService) Deallocate(ctx context.Context, orgID, paymentID, invoiceID uuid.UUID) (*PaymentResponse, error) {
	var payment *finance.Payment

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByIDForOrg(ctx, paymentID, orgID)
		if err != nil {
			return err
		}

		freed, err := payment.RemoveAllocation(invoiceID)
		if err != nil {
			return err
		}

		invoice, err := repos.InvoiceRepo().FindByIDForOrg(ctx, invoiceID, orgID)
		if err != nil {
			return err
		}
		if err := invoice.ReversePayment(valueobject.NewMoneyZMW(freed)); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		return repos.PaymentRepo().SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Reverse voids an unallocated payment and withdraws the money back
// out of the account
func (s *PaymentService) Reverse(ctx context.Context, orgID, paymentID uuid.UUID) (*PaymentResponse, error) {
	var payment *finance.Payment

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByIDForOrg(ctx, paymentID, orgID)
		if err != nil {
			return err
		}

		if err := payment.Reverse(); err != nil {
			return err
		}

		account, err := repos.AccountRepo().FindByIDForOrg(ctx, payment.AccountID, orgID)
		if err != nil {
			return err
		}
		movement, err := account.Withdraw(payment.GetAmountMoney(), treasury.ReferenceTypePayment, &payment.ID, "reversal "+payment.Number)
		if err != nil {
			return err
		}
		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		if err := repos.MoneyMovementRepo().Save(ctx, movement); err != nil {
			return err
		}

		return repos.PaymentRepo().SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, orgID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForOrg(ctx, paymentID, orgID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, orgID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := buildPaymentFilter(filter)

	payments, err := s.paymentRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.paymentRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = ToPaymentResponse(p)
	}

	return responses, total, nil
}

func buildPaymentFilter(filter PaymentListFilter) shared.Filter {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Method != "" {
		domainFilter.Filters["method"] = filter.Method
	}
	return domainFilter
}

func (s *PaymentService) publishEvents(ctx context.Context, payment *finance.Payment) {
	if s.eventPublisher == nil || payment == nil {
		return
	}
	events := payment.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	payment.ClearDomainEvents()
}

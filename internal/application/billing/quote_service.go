package billing

import (
	"context"
	"time"

	"github.com/doaddy/backend/internal/domain/billing"
	"github.com/doaddy/backend/internal/domain/catalog"
	"github.com/doaddy/backend/internal/domain/partner"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuoteService handles quote business operations
type QuoteService struct {
	quoteRepo      billing.QuoteRepository
	invoiceRepo    billing.InvoiceRepository
	itemRepo       catalog.ItemRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo billing.QuoteRepository, invoiceRepo billing.InvoiceRepository, itemRepo catalog.ItemRepository, customerRepo partner.CustomerRepository) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft quote
func (s *QuoteService) Create(ctx context.Context, orgID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	if _, err := s.customerRepo.FindByIDForOrg(ctx, orgID, req.CustomerID); err != nil {
		return nil, err
	}

	number, err := s.quoteRepo.GenerateQuoteNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}

	lines := make(billing.DocumentLines, 0, len(req.Lines))
	for _, input := range req.Lines {
		item, err := s.itemRepo.FindByIDForOrg(ctx, input.ItemID, orgID)
		if err != nil {
			return nil, err
		}

		unitPrice := item.SellingPrice
		if input.UnitPrice != nil {
			unitPrice = *input.UnitPrice
		}

		line, err := billing.NewDocumentLine(item.ID, item.SKU, item.Name, input.Quantity, item.CostPrice, unitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	discountType := billing.DiscountTypeNone
	if req.DiscountType != "" {
		discountType = billing.DiscountType(req.DiscountType)
	}

	quote, err := billing.NewQuote(orgID, req.CustomerID, number, issueDate, req.ValidUntil,
		lines, discountType, req.DiscountValue, billing.DefaultVATRate, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quote)

	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote, expiring it first if its validity has passed
func (s *QuoteService) GetByID(ctx context.Context, orgID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForOrg(ctx, quoteID, orgID)
	if err != nil {
		return nil, err
	}

	if quote.MarkExpired(time.Now()) {
		if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
			return nil, err
		}
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Send issues a draft quote to the customer
func (s *QuoteService) Send(ctx context.Context, orgID, quoteID uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, orgID, quoteID, func(q *billing.Quote) error {
		return q.Send()
	})
}

// Accept marks a sent quote as accepted
func (s *QuoteService) Accept(ctx context.Context, orgID, quoteID uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, orgID, quoteID, func(q *billing.Quote) error {
		return q.Accept(time.Now())
	})
}

// Reject marks a sent quote as rejected
func (s *QuoteService) Reject(ctx context.Context, orgID, quoteID uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, orgID, quoteID, func(q *billing.Quote) error {
		return q.Reject()
	})
}

func (s *QuoteService) transition(ctx context.Context, orgID, quoteID uuid.UUID, fn func(*billing.Quote) error) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForOrg(ctx, quoteID, orgID)
	if err != nil {
		return nil, err
	}

	if err := fn(quote); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quote)

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Convert turns an accepted quote into a draft invoice
func (s *QuoteService) Convert(ctx context.Context, orgID, quoteID uuid.UUID, req ConvertQuoteRequest) (*InvoiceResponse, error) {
	quote, err := s.quoteRepo.FindByIDForOrg(ctx, quoteID, orgID)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}

	invoice, err := quote.ConvertToInvoice(number, time.Now(), req.DueDate)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quote)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, orgID uuid.UUID, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	domainFilter := buildQuoteFilter(filter)

	quotes, err := s.quoteRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.quoteRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuoteResponse, len(quotes))
	for i, quote := range quotes {
		responses[i] = ToQuoteResponse(quote)
	}

	return responses, total, nil
}

func buildQuoteFilter(filter QuoteListFilter) shared.Filter {
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
	return domainFilter
}

func (s *QuoteService) publishEvents(ctx context.Context, quote *billing.Quote) {
	if s.eventPublisher == nil || quote == nil {
		return
	}
	events := quote.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	quote.ClearDomainEvents()
}

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

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	itemRepo       catalog.ItemRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, itemRepo catalog.ItemRepository, customerRepo partner.CustomerRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft invoice, snapshotting item details into lines
func (s *InvoiceService) Create(ctx context.Context, orgID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if _, err := s.customerRepo.FindByIDForOrg(ctx, orgID, req.CustomerID); err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, orgID, req.Lines)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	discountType := billing.DiscountTypeNone
	if req.DiscountType != "" {
		discountType = billing.DiscountType(req.DiscountType)
	}

	invoice, err := billing.NewInvoice(orgID, req.CustomerID, number, issueDate, req.DueDate,
		lines, discountType, req.DiscountValue, billing.DefaultVATRate, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UpdateDraft replaces a draft invoice's lines and terms, re-snapshotting
// item details and recomputing totals
func (s *InvoiceService) UpdateDraft(ctx context.Context, orgID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, invoiceID, orgID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, orgID, req.Lines)
	if err != nil {
		return nil, err
	}

	issueDate := invoice.IssueDate
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	discountType := billing.DiscountTypeNone
	if req.DiscountType != "" {
		discountType = billing.DiscountType(req.DiscountType)
	}

	if err := invoice.UpdateDraft(issueDate, req.DueDate, lines, discountType, req.DiscountValue, req.Notes); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice, refreshing its derived status first so
// an overdue invoice never reads as sent
func (s *InvoiceService) GetByID(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, invoiceID, orgID)
	if err != nil {
		return nil, err
	}

	if invoice.RefreshStatus(time.Now()) {
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			return nil, err
		}
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Send issues a draft invoice to the customer
func (s *InvoiceService) Send(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, invoiceID, orgID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Send(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Cancel voids an invoice that has no payments applied
func (s *InvoiceService) Cancel(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, invoiceID, orgID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination. Statuses are
// derived in the response so stale rows still read correctly.
func (s *InvoiceService) List(ctx context.Context, orgID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := buildInvoiceFilter(filter)

	invoices, err := s.invoiceRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	responses := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		invoice.Status = invoice.DeriveStatus(now)
		responses[i] = ToInvoiceResponse(invoice)
	}

	return responses, total, nil
}

func (s *InvoiceService) buildLines(ctx context.Context, orgID uuid.UUID, inputs []DocumentLineInput) (billing.DocumentLines, error) {
	lines := make(billing.DocumentLines, 0, len(inputs))
	for _, input := range inputs {
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
	return lines, nil
}

func buildInvoiceFilter(filter InvoiceListFilter) shared.Filter {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	return domainFilter
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil || invoice == nil {
		return
	}
	events := invoice.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	invoice.ClearDomainEvents()
}

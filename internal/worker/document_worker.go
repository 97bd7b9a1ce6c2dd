package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DocumentJobPayload is the job envelope sent to QueueDocuments.
type DocumentJobPayload struct {
	InvoiceID string `json:"invoice_id"`
}

type invoiceStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	SetPDFPath(ctx context.Context, id uuid.UUID, path string) error
}

type invoiceRenderer interface {
	Render(inv *model.Invoice) (string, error)
}

// EmailQueue accepts e-mail jobs.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// DocumentWorker renders invoice PDFs and, when the customer has an e-mail
// address, hands the document to the e-mail queue.
type DocumentWorker struct {
	invoices  invoiceStore
	renderer  invoiceRenderer
	emails    EmailQueue
	storeName string
}

func NewDocumentWorker(invoices invoiceStore, renderer invoiceRenderer, emails EmailQueue, storeName string) *DocumentWorker {
	return &DocumentWorker{invoices: invoices, renderer: renderer, emails: emails, storeName: storeName}
}

// Process handles a single document job:
//  1. Load the invoice with customer, items and payments
//  2. Render the PDF with backoff (maxAttempts)
//  3. Store the path on the invoice
//  4. Enqueue the e-mail when the customer has an address
func (w *DocumentWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload DocumentJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("document_worker: invalid payload: %w", err)
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		return fmt.Errorf("document_worker: invalid invoice_id %q", payload.InvoiceID)
	}

	inv, err := w.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("document_worker: load invoice %s: %w", invoiceID, err)
	}

	var pdfPath string
	err = withRetry(ctx, maxAttempts, func(attempt int) error {
		path, err := w.renderer.Render(inv)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("invoice_id", payload.InvoiceID).Msg("document_worker: render failed")
			return err
		}
		pdfPath = path
		return nil
	})
	if err != nil {
		return fmt.Errorf("document_worker: render invoice %s: %w", inv.InvoiceNumber, err)
	}

	if err := w.invoices.SetPDFPath(ctx, inv.ID, pdfPath); err != nil {
		return fmt.Errorf("document_worker: store pdf path: %w", err)
	}
	log.Info().Str("pdf", pdfPath).Str("invoice_number", inv.InvoiceNumber).Msg("document_worker: PDF generated")

	if inv.Customer == nil || inv.Customer.Email == nil || *inv.Customer.Email == "" || w.emails == nil {
		return nil
	}
	job := EmailJobPayload{
		InvoiceID: inv.ID.String(),
		ToEmail:   *inv.Customer.Email,
		Subject:   fmt.Sprintf("%s invoice %s", w.storeName, inv.InvoiceNumber),
		Body: fmt.Sprintf("Dear %s,\n\nPlease find attached invoice %s for Rs. %s.\n\nThank you,\n%s",
			inv.Customer.Name, inv.InvoiceNumber, inv.TotalAmount.StringFixed(2), w.storeName),
		PDFPath: pdfPath,
	}
	if err := w.emails.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("invoice_number", inv.InvoiceNumber).Msg("document_worker: failed to enqueue email")
	}
	return nil
}

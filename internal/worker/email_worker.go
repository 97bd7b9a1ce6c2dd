package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Akilucky-rogue/biz-boundless/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	InvoiceID string `json:"invoice_id,omitempty"`
	ToEmail   string `json:"to_email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	PDFPath   string `json:"pdf_path"`
}

type invoiceMailer interface {
	Enabled() bool
	SendInvoice(to, subject, body, pdfPath string) error
}

// EmailWorker sends invoice e-mails through the SMTP circuit breaker.
type EmailWorker struct {
	mailer  invoiceMailer
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(mailer invoiceMailer, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if !w.mailer.Enabled() {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	err := withRetry(ctx, maxAttempts, func(attempt int) error {
		err := w.breaker.Execute(func() error {
			return w.mailer.SendInvoice(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
		})
		if err != nil && !errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.ToEmail).Msg("email_worker: send failed")
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: invoice sent")
	return nil
}

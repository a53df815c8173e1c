package providers

import (
	"github.com/samber/do/v2"

	"github.com/booknotesapp/booknotes-server/internal/catalog"
	"github.com/booknotesapp/booknotes-server/internal/config"
	"github.com/booknotesapp/booknotes-server/internal/logger"
	"github.com/booknotesapp/booknotes-server/internal/mail"
)

// MailerHandle carries whichever mailer the configuration selected.
type MailerHandle struct {
	mail.Mailer
}

// ProvideMailer provides the outbound mailer. Without an SMTP relay
// configured, reset links are logged instead of sent so development setups
// still work end to end.
func ProvideMailer(i do.Injector) (*MailerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Mail.SMTPHost == "" {
		log.Warn("No SMTP relay configured, reset links will be logged instead of mailed")
		return &MailerHandle{Mailer: mail.NewNoopMailer(log.Logger)}, nil
	}

	mailer, err := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("SMTP mailer configured", "host", cfg.Mail.SMTPHost)

	return &MailerHandle{Mailer: mailer}, nil
}

// CatalogClientHandle wraps the catalog client with shutdown capability.
type CatalogClientHandle struct {
	*catalog.Client
}

// Shutdown implements do.Shutdownable.
func (h *CatalogClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideCatalogClient provides the Google Books client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return &CatalogClientHandle{Client: catalog.NewClient(log.Logger)}, nil
}

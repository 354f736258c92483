// Package notary issues and verifies notarized documents.
package notary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/auth"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// tokenManager defines the verification token operations needed by the notary service.
type tokenManager interface {
	Generate(uid, documentType string) (string, error)
	Validate(token string) (string, error)
}

// Service implements the document notarization workflow.
type Service struct {
	log       *slog.Logger
	documents storage.Collection[domain.Document]
	tokens    tokenManager
	now       func() time.Time
}

// NewService creates a new notary service instance.
func NewService(logger *slog.Logger, documents storage.Collection[domain.Document], tokens tokenManager) *Service {
	return &Service{
		log:       logger.With("service", "notary"),
		documents: documents,
		tokens:    tokens,
		now:       storage.Now,
	}
}

// NotarizeInput holds parameters for notarizing a document.
type NotarizeInput struct {
	NotaryName string `json:"notaryName" validate:"required,max=128"`
}

// Verification is the public view of a document looked up by token.
type Verification struct {
	UID          string                `json:"uid"`
	Title        string                `json:"title"`
	DocumentType string                `json:"documentType"`
	Status       domain.DocumentStatus `json:"status"`
	NotarizedAt  *time.Time            `json:"notarizedAt"`
	Valid        bool                  `json:"valid"`
}

// Create stores a new document with a fresh uid and verification token.
// Client-supplied values for either are ignored.
func (s *Service) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	doc.UID = auth.NewDocumentUID(s.now())

	token, err := s.tokens.Generate(doc.UID, doc.DocumentType)
	if err != nil {
		return domain.Document{}, fmt.Errorf("notary.Create: %w", err)
	}
	doc.VerificationToken = token

	created, err := s.documents.Create(ctx, doc)
	if err != nil {
		return domain.Document{}, fmt.Errorf("notary.Create: %w", err)
	}

	s.log.InfoContext(ctx, "document created",
		slog.Int64("document_id", created.ID),
		slog.String("uid", created.UID),
	)
	return created, nil
}

// Update applies patch to a document. The uid and verification token
// cannot be changed.
func (s *Service) Update(ctx context.Context, id int64, patch func(*domain.Document) error) (domain.Document, error) {
	doc, err := s.documents.Update(ctx, id, func(d *domain.Document) error {
		uid, token := d.UID, d.VerificationToken
		if err := patch(d); err != nil {
			return err
		}
		d.UID, d.VerificationToken = uid, token
		return nil
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("notary.Update: %w", err)
	}
	return doc, nil
}

// Notarize marks a document notarized by the given notary. Revoked
// documents cannot be notarized again.
func (s *Service) Notarize(ctx context.Context, id int64, in NotarizeInput) (domain.Document, error) {
	if in.NotaryName == "" {
		return domain.Document{}, domain.NewValidationError("notaryName", "required")
	}

	now := s.now()
	doc, err := s.documents.Update(ctx, id, func(d *domain.Document) error {
		if d.Status == domain.DocumentRevoked {
			return fmt.Errorf("document %s is revoked: %w", d.UID, domain.ErrConflict)
		}
		d.Status = domain.DocumentNotarized
		d.NotaryName = in.NotaryName
		d.NotarizedAt = &now
		return nil
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("notary.Notarize: %w", err)
	}

	s.log.InfoContext(ctx, "document notarized",
		slog.Int64("document_id", doc.ID),
		slog.String("notary", in.NotaryName),
	)
	return doc, nil
}

// Revoke marks a document revoked. Its token keeps resolving but reports
// the document as no longer valid.
func (s *Service) Revoke(ctx context.Context, id int64) (domain.Document, error) {
	doc, err := s.documents.Update(ctx, id, func(d *domain.Document) error {
		d.Status = domain.DocumentRevoked
		return nil
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("notary.Revoke: %w", err)
	}

	s.log.InfoContext(ctx, "document revoked", slog.Int64("document_id", doc.ID))
	return doc, nil
}

// Verify resolves a public verification token. Tokens that fail signature
// checks or do not match a stored document yield domain.ErrNotFound.
func (s *Service) Verify(ctx context.Context, token string) (Verification, error) {
	uid, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			s.log.DebugContext(ctx, "invalid verification token", slog.String("error", err.Error()))
			return Verification{}, fmt.Errorf("notary.Verify: %w", domain.ErrNotFound)
		}
		return Verification{}, fmt.Errorf("notary.Verify: %w", err)
	}

	docs, err := s.documents.Find(ctx, storage.Eq("uid", uid))
	if err != nil {
		return Verification{}, fmt.Errorf("notary.Verify: %w", err)
	}
	if len(docs) == 0 || docs[0].VerificationToken != token {
		return Verification{}, fmt.Errorf("notary.Verify: document %s: %w", uid, domain.ErrNotFound)
	}
	d := docs[0]

	return Verification{
		UID:          d.UID,
		Title:        d.Title,
		DocumentType: d.DocumentType,
		Status:       d.Status,
		NotarizedAt:  d.NotarizedAt,
		Valid:        d.Status == domain.DocumentNotarized,
	}, nil
}

package place

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/placeshare/places/pkg/artifact"
	"github.com/placeshare/places/pkg/auth"
	"github.com/placeshare/places/pkg/geo"
)

// CreateInput carries the caller-supplied fields of a new place. The
// creator comes from the verified token, never from the payload.
type CreateInput struct {
	Title       string
	Description string
	Address     string
}

// UseCase is the place lifecycle: every cross-entity mutation goes through
// here so the place/owner invariant and the image compensation rules live
// in one spot.
type UseCase interface {
	Create(ctx context.Context, creatorID uuid.UUID, in CreateInput, imageRef string) (Place, error)
	GetByID(ctx context.Context, id uuid.UUID) (Place, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]Place, error)
	Update(ctx context.Context, callerID, id uuid.UUID, title, description string) (Place, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
}

type service struct {
	repo      Repository
	users     auth.UserRepository
	geocoder  geo.Geocoder
	artifacts artifact.Store
	log       *logrus.Logger
}

// NewService wires the lifecycle use case with its collaborators.
func NewService(repo Repository, users auth.UserRepository, geocoder geo.Geocoder, artifacts artifact.Store, log *logrus.Logger) UseCase {
	return &service{repo: repo, users: users, geocoder: geocoder, artifacts: artifacts, log: log}
}

func (s *service) Create(ctx context.Context, creatorID uuid.UUID, in CreateInput, imageRef string) (Place, error) {
	// The image is already stored by the upload step, so every failure
	// from here on must compensate by discarding it.
	coords, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		s.discardArtifact(ctx, imageRef)
		return Place{}, err
	}

	if _, err := s.users.GetByID(ctx, creatorID); err != nil {
		s.discardArtifact(ctx, imageRef)
		if errors.Is(err, auth.ErrNotFound) {
			return Place{}, ErrOwnerNotFound
		}
		return Place{}, err
	}

	p := Place{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Address:     in.Address,
		Location:    coords,
		ImageRef:    imageRef,
		CreatorID:   creatorID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.discardArtifact(ctx, imageRef)
		if errors.Is(err, ErrOwnerNotFound) {
			return Place{}, ErrOwnerNotFound
		}
		s.log.WithError(err).Error("place create transaction failed")
		return Place{}, ErrTransaction
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Place, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]Place, error) {
	return s.repo.ListByCreator(ctx, creatorID)
}

func (s *service) Update(ctx context.Context, callerID, id uuid.UUID, title, description string) (Place, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Place{}, err
	}
	// Ownership check before any write.
	if p.CreatorID != callerID {
		return Place{}, ErrEditForbidden
	}
	p.Title = strings.TrimSpace(title)
	p.Description = description
	if err := s.repo.Update(ctx, p); err != nil {
		return Place{}, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Resolve the owner as well: a dangling creator reference should
	// surface before we touch anything.
	owner, err := s.users.GetByID(ctx, p.CreatorID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return ErrOwnerNotFound
		}
		return err
	}
	if owner.ID != callerID {
		return ErrDeleteForbidden
	}

	// Capture the ref before the row disappears.
	imageRef := p.ImageRef

	if err := s.repo.Delete(ctx, p.ID, p.CreatorID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost a race against a concurrent delete; nothing changed here.
			return ErrNotFound
		}
		s.log.WithError(err).Error("place delete transaction failed")
		return ErrTransaction
	}

	// Entity deletion is committed; image cleanup is advisory and must not
	// undo or mask it.
	s.discardArtifact(ctx, imageRef)
	return nil
}

// discardArtifact best-effort deletes an orphaned image. Runs detached from
// the request's cancellation so a dropped client cannot leak files, and
// failures are logged, never surfaced.
func (s *service) discardArtifact(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.artifacts.Remove(context.WithoutCancel(ctx), ref); err != nil {
		s.log.WithError(err).WithField("ref", ref).Warn("failed to delete image artifact")
	}
}

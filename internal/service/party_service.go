package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
)

// PartyInput holds the fields of a new customer or seller.
type PartyInput struct {
	Name       string
	NationalID string
	Address    string
}

// PartyService manages customers or sellers, depending on how it was built.
type PartyService interface {
	Create(ctx context.Context, in PartyInput) (*domain.Party, error)
	Search(ctx context.Context, name string) ([]*domain.Party, error)
	Get(ctx context.Context, ref string) (*domain.Party, error)
	Update(ctx context.Context, ref string, update domain.PartyUpdate) (*domain.Party, domain.Changes, error)
	Delete(ctx context.Context, ref string) (*domain.Party, error)
}

type partyService struct {
	store repository.Store
	kind  domain.PartyKind
	now   func() time.Time
}

// NewCustomerService creates a PartyService over customers
func NewCustomerService(store repository.Store) PartyService {
	return newPartyService(store, domain.PartyCustomer)
}

// NewSellerService creates a PartyService over sellers
func NewSellerService(store repository.Store) PartyService {
	return newPartyService(store, domain.PartySeller)
}

func newPartyService(store repository.Store, kind domain.PartyKind) *partyService {
	return &partyService{
		store: store,
		kind:  kind,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *partyService) repo(repos repository.Repositories) repository.PartyRepository {
	if s.kind == domain.PartySeller {
		return repos.Sellers()
	}
	return repos.Customers()
}

func (s *partyService) validate(name, nationalID string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name is required: %w", s.kind, domain.ErrInvalidInput)
	}
	if !domain.LooksLikeNationalID(nationalID) {
		return fmt.Errorf("national id must match ###.###.###-##: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *partyService) Create(ctx context.Context, in PartyInput) (*domain.Party, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.validate(name, in.NationalID); err != nil {
		return nil, err
	}

	now := s.now()
	party := &domain.Party{
		ID:         uuid.New(),
		Kind:       s.kind,
		Name:       name,
		NationalID: in.NationalID,
		Address:    strings.TrimSpace(in.Address),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo(s.store).Create(ctx, party); err != nil {
		return nil, domain.Persistence("create "+string(s.kind), err)
	}
	return party, nil
}

func (s *partyService) Search(ctx context.Context, name string) ([]*domain.Party, error) {
	parties, err := s.repo(s.store).Search(ctx, name)
	if err != nil {
		return nil, domain.Persistence("search "+string(s.kind), err)
	}
	return parties, nil
}

func (s *partyService) Get(ctx context.Context, ref string) (*domain.Party, error) {
	party, err := resolveParty(ctx, s.repo(s.store), s.kind, ref)
	if err != nil {
		return nil, domain.Persistence("get "+string(s.kind), err)
	}
	return party, nil
}

// Update applies the non-nil fields and reports which of them changed.
func (s *partyService) Update(ctx context.Context, ref string, update domain.PartyUpdate) (*domain.Party, domain.Changes, error) {
	if update.Empty() {
		return nil, nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidInput)
	}

	var (
		party   *domain.Party
		changes domain.Changes
	)
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		repo := s.repo(repos)
		current, err := resolveParty(ctx, repo, s.kind, ref)
		if err != nil {
			return err
		}

		next := *current
		if update.Name != nil {
			next.Name = strings.TrimSpace(*update.Name)
		}
		if update.NationalID != nil {
			next.NationalID = *update.NationalID
		}
		if update.Address != nil {
			next.Address = strings.TrimSpace(*update.Address)
		}
		if err := s.validate(next.Name, next.NationalID); err != nil {
			return err
		}

		changes.Track("name", current.Name, next.Name)
		changes.Track("national_id", current.NationalID, next.NationalID)
		changes.Track("address", current.Address, next.Address)
		if len(changes) == 0 {
			party = current
			return nil
		}

		next.UpdatedAt = s.now()
		if err := repo.Update(ctx, &next); err != nil {
			return err
		}
		party = &next
		return nil
	})
	if err != nil {
		return nil, nil, domain.Persistence("update "+string(s.kind), err)
	}

	return party, changes, nil
}

// Delete removes the party and returns it as it was.
func (s *partyService) Delete(ctx context.Context, ref string) (*domain.Party, error) {
	var party *domain.Party
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		repo := s.repo(repos)
		current, err := resolveParty(ctx, repo, s.kind, ref)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, current.ID); err != nil {
			return err
		}
		party = current
		return nil
	})
	if err != nil {
		return nil, domain.Persistence("delete "+string(s.kind), err)
	}
	return party, nil
}

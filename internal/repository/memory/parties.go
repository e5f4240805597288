package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
)

type partyRepository struct {
	*view
	kind domain.PartyKind
}

func (r *partyRepository) rows() map[uuid.UUID]domain.Party {
	return r.store.data.parties(r.kind)
}

func (r *partyRepository) nationalIDTaken(nationalID string, except uuid.UUID) bool {
	for id, p := range r.rows() {
		if id != except && p.NationalID == nationalID {
			return true
		}
	}
	return false
}

func (r *partyRepository) Create(_ context.Context, party *domain.Party) error {
	defer r.guard()()

	if _, ok := r.rows()[party.ID]; ok || r.nationalIDTaken(party.NationalID, party.ID) {
		return fmt.Errorf("%s with national id %s: %w", r.kind, party.NationalID, domain.ErrDuplicate)
	}
	stored := *party
	stored.Kind = r.kind
	r.rows()[party.ID] = stored
	return nil
}

func (r *partyRepository) Update(_ context.Context, party *domain.Party) error {
	defer r.guard()()

	current, ok := r.rows()[party.ID]
	if !ok {
		return domain.NewNotFound(string(r.kind), party.ID.String())
	}
	if r.nationalIDTaken(party.NationalID, party.ID) {
		return fmt.Errorf("%s with national id %s: %w", r.kind, party.NationalID, domain.ErrDuplicate)
	}
	current.Name = party.Name
	current.NationalID = party.NationalID
	current.Address = party.Address
	current.UpdatedAt = party.UpdatedAt
	r.rows()[party.ID] = current
	return nil
}

func (r *partyRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.guard()()

	if _, ok := r.rows()[id]; !ok {
		return domain.NewNotFound(string(r.kind), id.String())
	}
	for _, s := range r.store.data.sales {
		if (r.kind == domain.PartyCustomer && s.CustomerID == id) ||
			(r.kind == domain.PartySeller && s.SellerID == id) {
			return fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrInUse)
		}
	}
	delete(r.rows(), id)
	return nil
}

func (r *partyRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Party, error) {
	defer r.guard()()

	p, ok := r.rows()[id]
	if !ok {
		return nil, domain.NewNotFound(string(r.kind), id.String())
	}
	return &p, nil
}

func (r *partyRepository) FindByNationalID(_ context.Context, nationalID string) (*domain.Party, error) {
	defer r.guard()()

	for _, p := range r.rows() {
		if p.NationalID == nationalID {
			return &p, nil
		}
	}
	return nil, domain.NewNotFound(string(r.kind), nationalID)
}

// FindByName returns the oldest party with exactly this name.
func (r *partyRepository) FindByName(_ context.Context, name string) (*domain.Party, error) {
	defer r.guard()()

	matches := r.filter(func(p domain.Party) bool { return p.Name == strings.TrimSpace(name) })
	if len(matches) == 0 {
		return nil, domain.NewNotFound(string(r.kind), name)
	}
	slices.SortFunc(matches, func(a, b *domain.Party) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return matches[0], nil
}

func (r *partyRepository) Search(_ context.Context, name string) ([]*domain.Party, error) {
	defer r.guard()()

	needle := strings.ToLower(strings.TrimSpace(name))
	found := r.filter(func(p domain.Party) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
	slices.SortFunc(found, func(a, b *domain.Party) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return found, nil
}

func (r *partyRepository) filter(keep func(domain.Party) bool) []*domain.Party {
	out := []*domain.Party{}
	for _, p := range r.rows() {
		if keep(p) {
			out = append(out, &p)
		}
	}
	return out
}

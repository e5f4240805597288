package service

import (
	"context"
	"strings"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/repository"

	"github.com/google/uuid"
)

// Resolver turns a human-supplied reference into an entity. A reference is
// tried as a UUID first, then as a national id (parties only), then as a
// name.
type Resolver struct {
	repos repository.Repositories
}

// NewResolver binds a resolver to a set of repositories, usually the ones of
// the current unit of work.
func NewResolver(repos repository.Repositories) *Resolver {
	return &Resolver{repos: repos}
}

func (r *Resolver) Customer(ctx context.Context, ref string) (*domain.Party, error) {
	return resolveParty(ctx, r.repos.Customers(), domain.PartyCustomer, ref)
}

func (r *Resolver) Seller(ctx context.Context, ref string) (*domain.Party, error) {
	return resolveParty(ctx, r.repos.Sellers(), domain.PartySeller, ref)
}

// Product matches names case-insensitively.
func (r *Resolver) Product(ctx context.Context, ref string) (*domain.Product, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.NewNotFound("product", "")
	}
	if id, err := uuid.Parse(ref); err == nil {
		return r.repos.Products().FindByID(ctx, id)
	}
	return r.repos.Products().FindByName(ctx, ref)
}

func resolveParty(ctx context.Context, repo repository.PartyRepository, kind domain.PartyKind, ref string) (*domain.Party, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, domain.NewNotFound(string(kind), "")
	case isUUID(ref):
		return repo.FindByID(ctx, uuid.MustParse(ref))
	case domain.LooksLikeNationalID(ref):
		return repo.FindByNationalID(ctx, ref)
	default:
		return repo.FindByName(ctx, ref)
	}
}

func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}

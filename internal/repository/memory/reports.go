package memory

import (
	"context"
	"slices"
	"strings"

	"sales-inventory/internal/domain"

	"github.com/google/uuid"
)

type reportRepository struct {
	*view
}

// Upsert replaces the row holding the same key, keeping its id and
// creation time.
func (r *reportRepository) Upsert(_ context.Context, report *domain.Report) error {
	defer r.guard()()

	for id, existing := range r.store.data.reports {
		if existing.Key == report.Key {
			existing.Name = report.Name
			existing.Data = slices.Clone(report.Data)
			existing.UpdatedAt = report.UpdatedAt
			r.store.data.reports[id] = existing
			*report = existing
			return nil
		}
	}

	stored := *report
	stored.Data = slices.Clone(report.Data)
	r.store.data.reports[report.ID] = stored
	return nil
}

func (r *reportRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Report, error) {
	defer r.guard()()

	report, ok := r.store.data.reports[id]
	if !ok {
		return nil, domain.NewNotFound("report", id.String())
	}
	return &report, nil
}

func (r *reportRepository) List(_ context.Context) ([]*domain.Report, error) {
	defer r.guard()()

	out := make([]*domain.Report, 0, len(r.store.data.reports))
	for _, report := range r.store.data.reports {
		out = append(out, &report)
	}
	slices.SortFunc(out, func(a, b *domain.Report) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return out, nil
}

func (r *reportRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.guard()()

	if _, ok := r.store.data.reports[id]; !ok {
		return domain.NewNotFound("report", id.String())
	}
	delete(r.store.data.reports, id)
	return nil
}

// Package domaintest provides in-memory fakes for domain service tests.
package domaintest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
	"stocklot/internal/domain"
	"stocklot/internal/domain/batches"
	"stocklot/internal/domain/catalogs/company"
	"stocklot/internal/domain/catalogs/item"
	"stocklot/internal/domain/catalogs/location"
)

// TxManager runs the function directly; tests exercise business logic,
// not transaction plumbing.
type TxManager struct{}

func (TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Companies ---

// CompanyRepo is an in-memory company.Repository.
type CompanyRepo struct {
	mu    sync.Mutex
	items map[id.ID]*company.Company
}

func NewCompanyRepo() *CompanyRepo {
	return &CompanyRepo{items: make(map[id.ID]*company.Company)}
}

// Seed stores a company directly.
func (r *CompanyRepo) Seed(c *company.Company) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
}

func (r *CompanyRepo) Create(_ context.Context, c *company.Company) error {
	r.Seed(c)
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, companyID id.ID) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[companyID]
	if !ok || c.DeletionMark {
		return nil, apperror.NewNotFound("company", companyID.String())
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) GetByCode(_ context.Context, code string) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Code == code && !c.DeletionMark {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("company", code)
}

func (r *CompanyRepo) GetForUpdate(ctx context.Context, companyID id.ID) (*company.Company, error) {
	return r.GetByID(ctx, companyID)
}

func (r *CompanyRepo) Update(_ context.Context, c *company.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[c.ID]
	if !ok {
		return apperror.NewNotFound("company", c.ID.String())
	}
	if stored.Version != c.Version {
		return apperror.NewConcurrentModification("company", c.ID.String())
	}
	c.Version++
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) AdjustBalance(_ context.Context, companyID id.ID, currency types.Currency, delta types.Money) (*company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[companyID]
	if !ok {
		return nil, apperror.NewNotFound("company", companyID.String())
	}
	if currency == types.CurrencySRD {
		c.CashBalanceSRD = c.CashBalanceSRD.Add(delta)
	} else {
		c.CashBalanceUSD = c.CashBalanceUSD.Add(delta)
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) SetDeletionMark(_ context.Context, companyID id.ID, marked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[companyID]
	if !ok {
		return apperror.NewNotFound("company", companyID.String())
	}
	c.DeletionMark = marked
	return nil
}

func (r *CompanyRepo) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*company.Company], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*company.Company
	for _, c := range r.items {
		if c.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return domain.ListResult[*company.Company]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *CompanyRepo) Exists(_ context.Context, companyID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[companyID]
	return ok && !c.DeletionMark, nil
}

// --- Locations ---

// LocationRepo is an in-memory location.Repository.
type LocationRepo struct {
	mu    sync.Mutex
	items map[id.ID]*location.Location
}

func NewLocationRepo() *LocationRepo {
	return &LocationRepo{items: make(map[id.ID]*location.Location)}
}

func (r *LocationRepo) Seed(l *location.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.items[l.ID] = &cp
}

func (r *LocationRepo) Create(_ context.Context, l *location.Location) error {
	r.Seed(l)
	return nil
}

func (r *LocationRepo) GetByID(_ context.Context, locationID id.ID) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.items[locationID]
	if !ok || l.DeletionMark {
		return nil, apperror.NewNotFound("location", locationID.String())
	}
	cp := *l
	return &cp, nil
}

func (r *LocationRepo) GetByCode(_ context.Context, code string) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.items {
		if l.Code == code && !l.DeletionMark {
			cp := *l
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("location", code)
}

func (r *LocationRepo) Update(_ context.Context, l *location.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[l.ID]
	if !ok {
		return apperror.NewNotFound("location", l.ID.String())
	}
	if stored.Version != l.Version {
		return apperror.NewConcurrentModification("location", l.ID.String())
	}
	l.Version++
	cp := *l
	r.items[l.ID] = &cp
	return nil
}

func (r *LocationRepo) SetDeletionMark(_ context.Context, locationID id.ID, marked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.items[locationID]
	if !ok {
		return apperror.NewNotFound("location", locationID.String())
	}
	l.DeletionMark = marked
	return nil
}

func (r *LocationRepo) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*location.Location], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*location.Location
	for _, l := range r.items {
		if l.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.CompanyID != nil && l.CompanyID != *filter.CompanyID {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return domain.ListResult[*location.Location]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *LocationRepo) Exists(_ context.Context, locationID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.items[locationID]
	return ok && !l.DeletionMark, nil
}

func (r *LocationRepo) ListByCompany(ctx context.Context, companyID id.ID) ([]*location.Location, error) {
	res, err := r.List(ctx, domain.ListFilter{CompanyID: &companyID})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// --- Items ---

// ItemRepo is an in-memory item.Repository.
type ItemRepo struct {
	mu    sync.Mutex
	items map[id.ID]*item.Item
}

func NewItemRepo() *ItemRepo {
	return &ItemRepo{items: make(map[id.ID]*item.Item)}
}

func (r *ItemRepo) Seed(it *item.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *it
	r.items[it.ID] = &cp
}

func (r *ItemRepo) Create(_ context.Context, it *item.Item) error {
	r.Seed(it)
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, itemID id.ID) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[itemID]
	if !ok || it.DeletionMark {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	cp := *it
	return &cp, nil
}

func (r *ItemRepo) GetByCode(_ context.Context, code string) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.Code == code && !it.DeletionMark {
			cp := *it
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("item", code)
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*item.Item, error) {
	return r.GetByID(ctx, itemID)
}

func (r *ItemRepo) Update(_ context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[it.ID]
	if !ok {
		return apperror.NewNotFound("item", it.ID.String())
	}
	if stored.Version != it.Version {
		return apperror.NewConcurrentModification("item", it.ID.String())
	}
	it.Version++
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *ItemRepo) UpdateStock(_ context.Context, itemID id.ID, quantity int64, status *item.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.QuantityInStock = quantity
	if status != nil {
		it.Status = *status
	}
	it.Version++
	return nil
}

func (r *ItemRepo) SetDeletionMark(_ context.Context, itemID id.ID, marked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.DeletionMark = marked
	return nil
}

func (r *ItemRepo) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*item.Item
	for _, it := range r.items {
		if it.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.CompanyID != nil && it.CompanyID != *filter.CompanyID {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return domain.ListResult[*item.Item]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *ItemRepo) Exists(_ context.Context, itemID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[itemID]
	return ok && !it.DeletionMark, nil
}

// --- Batches ---

// BatchRepo is an in-memory batches.Repository.
type BatchRepo struct {
	mu    sync.Mutex
	items map[id.ID]*batches.StockBatch
}

func NewBatchRepo() *BatchRepo {
	return &BatchRepo{items: make(map[id.ID]*batches.StockBatch)}
}

func (r *BatchRepo) Seed(b *batches.StockBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.items[b.ID] = &cp
}

// Len returns the number of stored batches.
func (r *BatchRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *BatchRepo) Create(_ context.Context, b *batches.StockBatch) error {
	r.Seed(b)
	return nil
}

func (r *BatchRepo) GetByID(_ context.Context, batchID id.ID) (*batches.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[batchID]
	if !ok {
		return nil, apperror.NewNotFound("stock batch", batchID.String())
	}
	cp := *b
	return &cp, nil
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*batches.StockBatch, error) {
	return r.GetByID(ctx, batchID)
}

func (r *BatchRepo) Update(_ context.Context, b *batches.StockBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[b.ID]
	if !ok {
		return apperror.NewNotFound("stock batch", b.ID.String())
	}
	if stored.Version != b.Version {
		return apperror.NewConcurrentModification("stock batch", b.ID.String())
	}
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *BatchRepo) Delete(_ context.Context, batchID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[batchID]; !ok {
		return apperror.NewNotFound("stock batch", batchID.String())
	}
	delete(r.items, batchID)
	return nil
}

func (r *BatchRepo) ListByItem(_ context.Context, itemID id.ID) ([]*batches.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*batches.StockBatch
	for _, b := range r.items {
		if b.ItemID == itemID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BatchRepo) FindConsolidationTarget(_ context.Context, key batches.ConsolidationKey) (*batches.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key.Status == batches.StatusSold {
		return nil, nil
	}
	for _, b := range r.items {
		if b.Status != batches.StatusSold && key.Matches(b.Key()) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BatchRepo) SumLiveQuantity(_ context.Context, itemID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, b := range r.items {
		if b.ItemID == itemID && b.Status != batches.StatusSold {
			sum += b.Quantity
		}
	}
	return sum, nil
}

func (r *BatchRepo) SumAllQuantity(_ context.Context, itemID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, b := range r.items {
		if b.ItemID == itemID {
			sum += b.Quantity
		}
	}
	return sum, nil
}

// --- Audit ---

// AuditRecorder captures audit events in memory.
type AuditRecorder struct {
	mu     sync.Mutex
	Events []batches.AuditEvent
}

func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{}
}

func (a *AuditRecorder) Record(_ context.Context, event batches.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Events = append(a.Events, event)
	return nil
}

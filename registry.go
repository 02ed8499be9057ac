package tenancy

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// TenantChange is the snapshot delivered to registry subscribers after the
// tenant set or the selection changes.
type TenantChange struct {
	Tenants     []Tenant
	SelectedID  int64
	HasSelected bool
}

// TenantRegistry owns the set of clubs the session belongs to and the active
// selection. Mutation is confined to Refresh, Select, and Clear; everything
// else is a read. Safe for concurrent use.
type TenantRegistry struct {
	mu          sync.RWMutex
	tenants     []Tenant
	selectedID  int64
	hasSelected bool

	// refreshSeq is the most recently issued refresh token. A completed
	// refresh applies only if it still holds the latest token, so an earlier
	// call that resolves late can never clobber a newer result.
	refreshSeq uint64

	// restoreID holds a persisted selection waiting for the first refresh
	// that contains it.
	restoreID  int64
	hasRestore bool

	lister  TenantLister
	storage TokenStorage
	logger  Logger

	subMu   sync.Mutex
	subs    map[int]func(TenantChange)
	nextSub int
}

// NewTenantRegistry returns a registry fed by the given lister. The storage
// is used to persist the selected tenant id across restarts; pass a
// MemoryTokenStorage when durability is not wanted.
func NewTenantRegistry(lister TenantLister, storage TokenStorage) *TenantRegistry {
	return &TenantRegistry{
		lister:  lister,
		storage: storage,
		logger:  defLogger{},
		subs:    map[int]func(TenantChange){},
	}
}

// WithLogger sets the logger used for refresh and persistence failures.
func (r *TenantRegistry) WithLogger(logger Logger) *TenantRegistry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Restore loads a persisted tenant selection. The selection is applied by
// the first Refresh whose result still contains that tenant; until then the
// registry reports no selection, honoring the membership invariant.
func (r *TenantRegistry) Restore(ctx context.Context) error {
	id, ok, err := r.storage.GetSelectedTenant(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read persisted tenant selection")
	}
	if !ok {
		return nil
	}

	r.mu.Lock()
	r.restoreID = id
	r.hasRestore = true
	r.mu.Unlock()
	return nil
}

// Refresh replaces the tenant set with the lister's current view. On failure
// the previous set and selection are left untouched. Overlapping refreshes
// are sequenced: only the most recently started call may apply its result.
func (r *TenantRegistry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.refreshSeq++
	seq := r.refreshSeq
	r.mu.Unlock()

	tenants, err := r.lister.ListTenants(ctx)
	if err != nil {
		r.logger.Error("Tenant refresh failed, keeping previous state", "error", err)
		return goerrors.Wrap(err, ErrTenantFetch.Category, ErrTenantFetch.Message).
			WithTextCode(ErrTenantFetch.TextCode)
	}

	// The triggering component may have been torn down while the call was in
	// flight; a cancelled refresh must not apply its result.
	if ctx.Err() != nil {
		r.logger.Debug("Discarding refresh result after cancellation")
		return ctx.Err()
	}

	r.mu.Lock()
	if seq != r.refreshSeq {
		r.mu.Unlock()
		r.logger.Debug("Discarding stale refresh result", "seq", seq, "latest", r.refreshSeq)
		return nil
	}

	r.tenants = tenants

	if r.hasSelected && !containsTenant(tenants, r.selectedID) {
		r.logger.Info("Selected tenant dropped by refresh, resetting selection", "tenant", r.selectedID)
		r.selectedID = 0
		r.hasSelected = false
	}

	if !r.hasSelected && r.hasRestore {
		if containsTenant(tenants, r.restoreID) {
			r.selectedID = r.restoreID
			r.hasSelected = true
		}
		r.hasRestore = false
	}

	change := r.changeLocked()
	r.mu.Unlock()

	r.notify(change)
	return nil
}

// Select makes the given tenant the active scope. Fails with
// ErrUnknownTenant when the id is not in the current set; state is unchanged
// on failure.
func (r *TenantRegistry) Select(ctx context.Context, tenantID int64) error {
	r.mu.Lock()
	if !containsTenant(r.tenants, tenantID) {
		r.mu.Unlock()
		return unknownTenant(tenantID)
	}

	r.selectedID = tenantID
	r.hasSelected = true
	change := r.changeLocked()
	r.mu.Unlock()

	if err := r.storage.SetSelectedTenant(ctx, tenantID); err != nil {
		r.logger.Error("Failed to persist tenant selection", "tenant", tenantID, "error", err)
	}

	r.notify(change)
	return nil
}

// Clear empties the registry. Called at logout alongside SessionStore.Clear.
// Bumping the refresh sequence invalidates any refresh still in flight, so a
// late response cannot resurrect tenant state after teardown.
func (r *TenantRegistry) Clear() {
	r.mu.Lock()
	r.refreshSeq++
	r.tenants = nil
	r.selectedID = 0
	r.hasSelected = false
	r.hasRestore = false
	change := r.changeLocked()
	r.mu.Unlock()

	r.notify(change)
}

// Tenants returns a copy of the current tenant set, in server order.
func (r *TenantRegistry) Tenants() []Tenant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tenant, len(r.tenants))
	copy(out, r.tenants)
	return out
}

// SelectedTenantID returns the active tenant id, if any.
func (r *TenantRegistry) SelectedTenantID() (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selectedID, r.hasSelected
}

// SelectedTenant returns the active tenant snapshot, if any.
func (r *TenantRegistry) SelectedTenant() (Tenant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.hasSelected {
		return Tenant{}, false
	}
	for _, tenant := range r.tenants {
		if tenant.ID == r.selectedID {
			return tenant, true
		}
	}
	return Tenant{}, false
}

// IsAdminInSelected reports whether a tenant is selected and the user's role
// in it is admin or owner. No selection is false, not an error.
func (r *TenantRegistry) IsAdminInSelected() bool {
	tenant, ok := r.SelectedTenant()
	if !ok {
		return false
	}
	return tenant.IsAdmin()
}

// OnChange registers a subscriber invoked after every applied mutation. The
// returned function removes the subscription. Callbacks run outside the
// registry lock and must not block.
func (r *TenantRegistry) OnChange(fn func(TenantChange)) func() {
	if fn == nil {
		return func() {}
	}

	r.subMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subs, id)
		r.subMu.Unlock()
	}
}

func (r *TenantRegistry) notify(change TenantChange) {
	r.subMu.Lock()
	subs := make([]func(TenantChange), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.subMu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

// changeLocked snapshots registry state; callers must hold mu.
func (r *TenantRegistry) changeLocked() TenantChange {
	tenants := make([]Tenant, len(r.tenants))
	copy(tenants, r.tenants)
	return TenantChange{
		Tenants:     tenants,
		SelectedID:  r.selectedID,
		HasSelected: r.hasSelected,
	}
}

func containsTenant(tenants []Tenant, id int64) bool {
	for _, tenant := range tenants {
		if tenant.ID == id {
			return true
		}
	}
	return false
}

func unknownTenant(id int64) error {
	clone := ErrUnknownTenant.Clone()
	if clone == nil {
		return ErrUnknownTenant
	}
	clone.Source = ErrUnknownTenant
	return clone.WithMetadata(map[string]any{"tenant_id": id})
}

package tenancy

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const (
	storageKeyToken          = "session_token"
	storageKeySelectedTenant = "selected_tenant"
)

// SessionRecord is the kv row backing durable session state.
type SessionRecord struct {
	bun.BaseModel `bun:"table:session_store,alias:ss"`
	Key           string     `bun:"key,pk" json:"key"`
	Value         string     `bun:"value,notnull" json:"value"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// BunTokenStorage persists the raw token and tenant selection in a kv table
// so the session survives process restarts.
type BunTokenStorage struct {
	db *bun.DB
}

// Verify interface compliance
var _ TokenStorage = (*BunTokenStorage)(nil)

// NewBunTokenStorage returns a TokenStorage over the given bun connection.
// Call Init once to ensure the backing table exists.
func NewBunTokenStorage(db *bun.DB) *BunTokenStorage {
	return &BunTokenStorage{db: db}
}

// Init creates the session_store table if needed.
func (b *BunTokenStorage) Init(ctx context.Context) error {
	_, err := b.db.NewCreateTable().
		Model((*SessionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create session store table")
	}
	return nil
}

func (b *BunTokenStorage) GetToken(ctx context.Context) (string, error) {
	return b.get(ctx, storageKeyToken)
}

func (b *BunTokenStorage) SetToken(ctx context.Context, raw string) error {
	return b.set(ctx, storageKeyToken, raw)
}

func (b *BunTokenStorage) GetSelectedTenant(ctx context.Context) (int64, bool, error) {
	val, err := b.get(ctx, storageKeySelectedTenant)
	if err != nil {
		return 0, false, err
	}
	if val == "" {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, goerrors.Wrap(err, goerrors.CategoryInternal, "corrupt selected tenant record")
	}
	return id, true, nil
}

func (b *BunTokenStorage) SetSelectedTenant(ctx context.Context, id int64) error {
	return b.set(ctx, storageKeySelectedTenant, strconv.FormatInt(id, 10))
}

func (b *BunTokenStorage) Clear(ctx context.Context) error {
	_, err := b.db.NewDelete().
		Model((*SessionRecord)(nil)).
		Where("key IN (?, ?)", storageKeyToken, storageKeySelectedTenant).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to clear session store")
	}
	return nil
}

func (b *BunTokenStorage) get(ctx context.Context, key string) (string, error) {
	record := &SessionRecord{}
	err := b.db.NewSelect().
		Model(record).
		Where("key = ?", key).
		Scan(ctx)
	if goerrors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read session store")
	}
	return record.Value, nil
}

func (b *BunTokenStorage) set(ctx context.Context, key, value string) error {
	now := time.Now()
	record := &SessionRecord{Key: key, Value: value, UpdatedAt: &now}

	_, err := b.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to write session store")
	}
	return nil
}

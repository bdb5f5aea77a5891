package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/listapp/internal/db"
	"github.com/alexanderramin/listapp/internal/domain"
)

// SQLiteCacheRepo implements CacheRepo using a SQLite database.
type SQLiteCacheRepo struct {
	db  *sql.DB
	uow db.UnitOfWork
	now func() time.Time
}

// NewSQLiteCacheRepo creates a new SQLiteCacheRepo.
func NewSQLiteCacheRepo(conn *sql.DB, uow db.UnitOfWork) *SQLiteCacheRepo {
	if uow == nil {
		uow = db.NewSQLiteUnitOfWork(conn)
	}
	return &SQLiteCacheRepo{db: conn, uow: uow, now: time.Now}
}

func (r *SQLiteCacheRepo) ReplaceSummaries(ctx context.Context, lists []domain.ListSummary) error {
	fetched := r.now().UTC().Format(timeLayout)
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM list_summaries`); err != nil {
			return fmt.Errorf("clearing list summaries: %w", err)
		}
		for i, l := range lists {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO list_summaries (id, title, description, item_count, sort_index, fetched_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				l.ID, l.Title, nullableString(l.Description), l.ItemCount, i, fetched)
			if err != nil {
				return fmt.Errorf("inserting list summary: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteCacheRepo) Summaries(ctx context.Context) (*CachedSummaries, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, item_count, fetched_at FROM list_summaries ORDER BY sort_index`)
	if err != nil {
		return nil, fmt.Errorf("listing cached summaries: %w", err)
	}
	defer rows.Close()

	out := &CachedSummaries{Lists: []domain.ListSummary{}}
	for rows.Next() {
		var (
			s       domain.ListSummary
			desc    sql.NullString
			fetched sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &desc, &s.ItemCount, &fetched); err != nil {
			return nil, fmt.Errorf("scanning cached summary: %w", err)
		}
		s.Description = stringPtr(desc)
		out.Lists = append(out.Lists, s)
		out.FetchedAt = parseTime(fetched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached summaries: %w", err)
	}
	if len(out.Lists) == 0 {
		return nil, fmt.Errorf("list summaries: %w", ErrCacheMiss)
	}
	return out, nil
}

func (r *SQLiteCacheRepo) InvalidateSummaries(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM list_summaries`); err != nil {
		return fmt.Errorf("invalidating list summaries: %w", err)
	}
	return nil
}

// ReplaceList stores l and exactly its items. The previous copy, if any, is
// dropped in the same transaction.
func (r *SQLiteCacheRepo) ReplaceList(ctx context.Context, l *domain.List) error {
	fetched := r.now().UTC().Format(timeLayout)
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, l.ID); err != nil {
			return fmt.Errorf("dropping cached list: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO lists (id, title, description, version, created_at, updated_at, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Title, nullableString(l.Description), l.Version,
			nullableTime(l.CreatedAt), nullableTime(l.UpdatedAt), fetched)
		if err != nil {
			return fmt.Errorf("inserting cached list: %w", err)
		}
		for _, it := range l.Items {
			if err := upsertItem(ctx, tx, l.ID, it); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteCacheRepo) GetList(ctx context.Context, listID string) (*CachedList, error) {
	var (
		l                         domain.List
		desc, created, updated, f sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, version, created_at, updated_at, fetched_at FROM lists WHERE id = ?`, listID).
		Scan(&l.ID, &l.Title, &desc, &l.Version, &created, &updated, &f)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("list %s: %w", listID, ErrCacheMiss)
		}
		return nil, fmt.Errorf("scanning cached list: %w", err)
	}
	l.Description = stringPtr(desc)
	l.CreatedAt = parseTime(created)
	l.UpdatedAt = parseTime(updated)

	items, err := r.items(ctx, listID)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return &CachedList{List: &l, FetchedAt: parseTime(f)}, nil
}

func (r *SQLiteCacheRepo) items(ctx context.Context, listID string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, notes, image_path, position FROM items WHERE list_id = ? ORDER BY position, id`, listID)
	if err != nil {
		return nil, fmt.Errorf("listing cached items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var (
			it         domain.Item
			notes, img sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Title, &notes, &img, &it.Position); err != nil {
			return nil, fmt.Errorf("scanning cached item: %w", err)
		}
		it.Notes = stringPtr(notes)
		it.ImagePath = stringPtr(img)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached items: %w", err)
	}
	return items, nil
}

// MergeItem upserts one item of a cached list. It does nothing when the
// list itself is not cached.
func (r *SQLiteCacheRepo) MergeItem(ctx context.Context, listID string, item domain.Item) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM lists WHERE id = ?`, listID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("checking cached list: %w", err)
		}
		return upsertItem(ctx, tx, listID, item)
	})
}

func (r *SQLiteCacheRepo) Invalidate(ctx context.Context, listID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, listID); err != nil {
		return fmt.Errorf("invalidating cached list: %w", err)
	}
	return nil
}

func (r *SQLiteCacheRepo) Clear(ctx context.Context) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, table := range []string{"items", "lists", "list_summaries"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		return nil
	})
}

func upsertItem(ctx context.Context, tx db.DBTX, listID string, it domain.Item) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO items (id, list_id, title, notes, image_path, position) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET list_id = excluded.list_id, title = excluded.title,
			notes = excluded.notes, image_path = excluded.image_path, position = excluded.position`,
		it.ID, listID, it.Title, nullableString(it.Notes), nullableString(it.ImagePath), it.Position)
	if err != nil {
		return fmt.Errorf("upserting cached item: %w", err)
	}
	return nil
}

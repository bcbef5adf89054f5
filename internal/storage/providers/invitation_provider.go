package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"
	"invitame/internal/theme"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const constraintInvitationSlug = "invitations_slug_key"

type InvitationProvider struct {
	db *pgxpool.Pool
}

func NewInvitationProvider(db *pgxpool.Pool) *InvitationProvider {
	return &InvitationProvider{db: db}
}

const invitationColumns = `
    i.id, i.user_id, i.order_id, i.template_key, i.slug, i.title, i.event_at,
    i.venue, i.address, i.theme, i.section_order, i.status, i.date_locked,
    i.slug_locked, i.auto_archive_days, i.published_at, i.archived_at, i.created_at`

func scanInvitation(row pgx.CollectableRow) (domains.Invitation, error) {
	var inv domains.Invitation
	var rawTheme []byte
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.OrderID, &inv.TemplateKey, &inv.Slug, &inv.Title, &inv.EventAt,
		&inv.Venue, &inv.Address, &rawTheme, &inv.SectionOrder, &inv.Status, &inv.DateLocked,
		&inv.SlugLocked, &inv.AutoArchiveDays, &inv.PublishedAt, &inv.ArchivedAt, &inv.CreatedAt,
	)
	if err != nil {
		return domains.Invitation{}, err
	}
	if inv.Theme, err = decodeTheme(rawTheme); err != nil {
		return domains.Invitation{}, err
	}
	return inv, nil
}

// decodeTheme reads a stored theme column. NULL is an empty theme; anything
// else that is not a JSON object is reported as corrupt.
func decodeTheme(raw []byte) (theme.Theme, error) {
	var t theme.Theme
	if len(raw) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return theme.Theme{}, fmt.Errorf("decode theme: %w", err)
	}
	return t, nil
}

func (s *InvitationProvider) CreateInvitation(ctx context.Context, in domains.InvitationToSave) (domains.Invitation, error) {
	rows, err := s.db.Query(ctx, `
          INSERT INTO invitations AS i (
              user_id, order_id, template_key, slug, title, event_at,
              venue, address, theme, section_order, status, published_at
          )
          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,
                  CASE WHEN $11 = 'active' THEN NOW() END)
          RETURNING`+invitationColumns,
		in.UserID, in.OrderID, in.TemplateKey, in.Slug, in.Title, in.EventAt,
		in.Venue, in.Address, in.Theme.JSON(), in.SectionOrder, in.Status,
	)
	if err != nil {
		return domains.Invitation{}, insertError(err)
	}
	inv, err := pgx.CollectOneRow(rows, scanInvitation)
	if err != nil {
		return domains.Invitation{}, insertError(err)
	}
	return inv, nil
}

// insertError maps unique violations on invitations to storage sentinels.
func insertError(err error) error {
	constraint, ok := uniqueViolation(err)
	switch {
	case !ok:
		return fmt.Errorf("insert invitation: %w", err)
	case constraint == constraintInvitationSlug:
		return storage.ErrSlugConflict
	default:
		return storage.ErrConflict
	}
}

func (s *InvitationProvider) getOne(ctx context.Context, where string, args ...any) (domains.Invitation, error) {
	rows, err := s.db.Query(ctx, `SELECT`+invitationColumns+` FROM invitations i WHERE `+where, args...)
	if err != nil {
		return domains.Invitation{}, fmt.Errorf("select invitation: %w", err)
	}
	inv, err := pgx.CollectOneRow(rows, scanInvitation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Invitation{}, storage.ErrNotFound
		}
		return domains.Invitation{}, fmt.Errorf("select invitation: %w", err)
	}
	return inv, nil
}

func (s *InvitationProvider) GetInvitation(ctx context.Context, id, userID int64) (domains.Invitation, error) {
	return s.getOne(ctx, `i.id = $1 AND i.user_id = $2`, id, userID)
}

func (s *InvitationProvider) GetInvitationBySlug(ctx context.Context, slug string) (domains.Invitation, error) {
	return s.getOne(ctx, `i.slug = $1`, slug)
}

func (s *InvitationProvider) GetInvitationByOrder(ctx context.Context, orderID int64) (domains.Invitation, error) {
	return s.getOne(ctx, `i.order_id = $1`, orderID)
}

func (s *InvitationProvider) ListInvitationsByUser(ctx context.Context, userID int64) ([]domains.InvitationSummary, error) {
	rows, err := s.db.Query(ctx, `
        SELECT`+invitationColumns+`, p.code, p.name
        FROM invitations i
        JOIN orders o ON o.id = i.order_id
        JOIN plans p ON p.id = o.plan_id
        WHERE i.user_id = $1 AND i.status = $2
        ORDER BY i.id DESC`, userID, domains.InvitationActive)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.InvitationSummary, error) {
		var sum domains.InvitationSummary
		var rawTheme []byte
		err := row.Scan(
			&sum.ID, &sum.UserID, &sum.OrderID, &sum.TemplateKey, &sum.Slug, &sum.Title, &sum.EventAt,
			&sum.Venue, &sum.Address, &rawTheme, &sum.SectionOrder, &sum.Status, &sum.DateLocked,
			&sum.SlugLocked, &sum.AutoArchiveDays, &sum.PublishedAt, &sum.ArchivedAt, &sum.CreatedAt,
			&sum.PlanCode, &sum.PlanName,
		)
		if err != nil {
			return sum, err
		}
		if sum.Theme, err = decodeTheme(rawTheme); err != nil {
			return sum, err
		}
		return sum, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return out, nil
}

func (s *InvitationProvider) GetInvitationPlan(ctx context.Context, id, userID int64) (domains.Plan, error) {
	rows, err := s.db.Query(ctx, `
        SELECT p.id, p.code, p.name, p.price_mxn, p.allow_registry, p.allow_music,
               p.template_scope, COALESCE(p.price_ref, ''), p.active
        FROM invitations i
        JOIN orders o ON o.id = i.order_id
        JOIN plans p ON p.id = o.plan_id
        WHERE i.id = $1 AND i.user_id = $2`, id, userID)
	if err != nil {
		return domains.Plan{}, fmt.Errorf("select invitation plan: %w", err)
	}
	p, err := pgx.CollectOneRow(rows, scanPlan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Plan{}, storage.ErrNotFound
		}
		return domains.Plan{}, fmt.Errorf("select invitation plan: %w", err)
	}
	return p, nil
}

// lockRow loads the lock flags of an owned invitation inside tx, holding a row lock.
func lockRow(ctx context.Context, tx pgx.Tx, id, userID int64) (dateLocked, slugLocked bool, err error) {
	err = tx.QueryRow(ctx,
		`SELECT date_locked, slug_locked FROM invitations WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&dateLocked, &slugLocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, storage.ErrNotFound
	}
	return dateLocked, slugLocked, err
}

func (s *InvitationProvider) LockDate(ctx context.Context, id, userID int64, eventAt time.Time) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	dateLocked, _, err := lockRow(ctx, tx, id, userID)
	if err != nil {
		return err
	}
	if dateLocked {
		return storage.ErrLocked
	}
	if _, err := tx.Exec(ctx,
		`UPDATE invitations SET event_at = $1, date_locked = TRUE, slug_locked = TRUE WHERE id = $2`,
		eventAt, id,
	); err != nil {
		return fmt.Errorf("lock date: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *InvitationProvider) UpdateSlug(ctx context.Context, id, userID int64, slug string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, slugLocked, err := lockRow(ctx, tx, id, userID)
	if err != nil {
		return err
	}
	if slugLocked {
		return storage.ErrLocked
	}
	if _, err := tx.Exec(ctx, `UPDATE invitations SET slug = $1 WHERE id = $2`, slug, id); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return storage.ErrSlugConflict
		}
		return fmt.Errorf("update slug: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *InvitationProvider) exec(ctx context.Context, query string, args ...any) error {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *InvitationProvider) UpdateTheme(ctx context.Context, id, userID int64, t theme.Theme) error {
	if err := s.exec(ctx, `UPDATE invitations SET theme = $1 WHERE id = $2 AND user_id = $3`, t.JSON(), id, userID); err != nil {
		return fmt.Errorf("update theme: %w", err)
	}
	return nil
}

func (s *InvitationProvider) UpdateSectionOrder(ctx context.Context, id, userID int64, order []string) error {
	if err := s.exec(ctx, `UPDATE invitations SET section_order = $1 WHERE id = $2 AND user_id = $3`, order, id, userID); err != nil {
		return fmt.Errorf("update section order: %w", err)
	}
	return nil
}

func (s *InvitationProvider) UpdateTemplateKey(ctx context.Context, id, userID int64, key string) error {
	if err := s.exec(ctx, `UPDATE invitations SET template_key = $1 WHERE id = $2 AND user_id = $3`, key, id, userID); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

func (s *InvitationProvider) PublishInvitation(ctx context.Context, id, userID int64, at time.Time) error {
	if err := s.exec(ctx,
		`UPDATE invitations SET status = $1, published_at = $2 WHERE id = $3 AND user_id = $4`,
		domains.InvitationActive, at, id, userID,
	); err != nil {
		return fmt.Errorf("publish invitation: %w", err)
	}
	return nil
}

func (s *InvitationProvider) ListArchivable(ctx context.Context, now time.Time, afterID int64, limit int) ([]int64, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id FROM invitations
        WHERE status = $1
          AND id > $2
          AND event_at + make_interval(days => COALESCE(auto_archive_days, $3)) < $4
        ORDER BY id
        LIMIT $5`,
		domains.InvitationActive, afterID, domains.DefaultArchiveDays, now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list archivable: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("list archivable: %w", err)
	}
	return ids, nil
}

func (s *InvitationProvider) ArchiveInvitations(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE invitations SET status = $1, archived_at = $2 WHERE id = ANY($3) AND status = $4`,
		domains.InvitationArchived, at, ids, domains.InvitationActive,
	)
	if err != nil {
		return 0, fmt.Errorf("archive invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}

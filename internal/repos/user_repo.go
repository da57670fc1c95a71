package repos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"counterpos/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`
		SELECT id,email,name,password_hash,created_at FROM users WHERE LOWER(email)=LOWER(?)
	`), email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// BindSession stores the identity behind a session id. userID is empty for the owner.
func (r *UserRepo) BindSession(ctx context.Context, sid, userID string, p domain.Principal, expires time.Time) error {
	var uid sql.NullString
	if userID != "" {
		uid = sql.NullString{String: userID, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO sessions(id,user_id,email,name,role,created_at,expires_at)
		VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, email=excluded.email,
		  name=excluded.name, role=excluded.role, expires_at=excluded.expires_at
	`), sid, uid, p.Email, p.Name, string(p.Role), FormatTime(time.Now()), FormatTime(expires))
	return err
}

// SessionPrincipal returns the identity for a live session.
func (r *UserRepo) SessionPrincipal(ctx context.Context, sid string, now time.Time) (*domain.Principal, error) {
	var p domain.Principal
	err := r.DB.GetContext(ctx, &p, r.DB.Rebind(`
		SELECT email, name, role FROM sessions WHERE id = ? AND expires_at > ?
	`), sid, FormatTime(now))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE id = ?`), sid)
	return err
}

// PurgeSessions deletes expired sessions and reports how many were removed.
func (r *UserRepo) PurgeSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), FormatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

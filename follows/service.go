// Package follows maintains the directed follow graph. The follows table is
// the single source of truth; the follower_count/following_count columns on
// users are projections updated in the same transaction as the edge.
package follows

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/users"
	"github.com/user/linkup-go/webutil"
)

const pgUniqueViolation = "23505"

// Service manages follow relationships.
type Service interface {
	Follow(ctx context.Context, followerID, followingID int64) error
	Unfollow(ctx context.Context, followerID, followingID int64) error
	Followers(ctx context.Context, userID int64, p webutil.PageParams) ([]users.Summary, int64, error)
	Following(ctx context.Context, userID int64, p webutil.PageParams) ([]users.Summary, int64, error)
}

type service struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewService creates the follow graph service.
func NewService(db *pgxpool.Pool, logger *zap.Logger) Service {
	return &service{db: db, logger: logger}
}

// Follow inserts the edge and bumps both count projections atomically.
func (s *service) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return apperror.NewBadRequestError("Cannot follow yourself", nil)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, followingID).Scan(&exists); err != nil {
		return apperror.NewDatabaseError("failed to check user", err)
	}
	if !exists {
		return apperror.NewNotFoundError("User not found", nil)
	}

	_, err = tx.Exec(ctx, `INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`, followerID, followingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewBadRequestError("Already following this user", err)
		}
		return apperror.NewDatabaseError("failed to create follow", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET following_count = following_count + 1 WHERE id = $1`, followerID); err != nil {
		return apperror.NewDatabaseError("failed to update following count", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET follower_count = follower_count + 1 WHERE id = $1`, followingID); err != nil {
		return apperror.NewDatabaseError("failed to update follower count", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit follow", err)
	}
	s.logger.Debug("follow created",
		zap.Int64("follower_id", followerID),
		zap.Int64("following_id", followingID))
	return nil
}

// Unfollow removes the edge and decrements both count projections atomically.
func (s *service) Unfollow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return apperror.NewBadRequestError("Cannot unfollow yourself", nil)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, followingID).Scan(&exists); err != nil {
		return apperror.NewDatabaseError("failed to check user", err)
	}
	if !exists {
		return apperror.NewNotFoundError("User not found", nil)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete follow", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewBadRequestError("Not following this user", nil)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET following_count = greatest(following_count - 1, 0) WHERE id = $1`, followerID); err != nil {
		return apperror.NewDatabaseError("failed to update following count", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET follower_count = greatest(follower_count - 1, 0) WHERE id = $1`, followingID); err != nil {
		return apperror.NewDatabaseError("failed to update follower count", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit unfollow", err)
	}
	return nil
}

// Followers lists the users following userID. The total comes from the
// follower_count projection so the page query stays cheap.
func (s *service) Followers(ctx context.Context, userID int64, p webutil.PageParams) ([]users.Summary, int64, error) {
	return s.listEdges(ctx, userID, p, true)
}

// Following lists the users userID follows.
func (s *service) Following(ctx context.Context, userID int64, p webutil.PageParams) ([]users.Summary, int64, error) {
	return s.listEdges(ctx, userID, p, false)
}

func (s *service) listEdges(ctx context.Context, userID int64, p webutil.PageParams, followers bool) ([]users.Summary, int64, error) {
	countColumn, joinColumn, whereColumn := "follower_count", "f.follower_id", "f.following_id"
	if !followers {
		countColumn, joinColumn, whereColumn = "following_count", "f.following_id", "f.follower_id"
	}

	var total int64
	err := s.db.QueryRow(ctx, `SELECT `+countColumn+` FROM users WHERE id = $1`, userID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, 0, apperror.NewDatabaseError("failed to read follow count", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.username, u.first_name, u.last_name, u.profile_picture
		FROM follows f
		JOIN users u ON u.id = `+joinColumn+`
		WHERE `+whereColumn+` = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list follow edges", err)
	}
	defer rows.Close()

	out := []users.Summary{}
	for rows.Next() {
		var sm users.Summary
		if err := rows.Scan(&sm.ID, &sm.Username, &sm.FirstName, &sm.LastName, &sm.ProfilePicture); err != nil {
			return nil, 0, apperror.NewDatabaseError("failed to scan follow edge", err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list follow edges", err)
	}
	return out, total, nil
}

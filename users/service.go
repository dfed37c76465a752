package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/db"
	"github.com/user/linkup-go/webutil"
)

// userColumns is the password-free projection used by every listing query.
const userColumns = `id, username, email, first_name, last_name, bio,
	profile_picture, cover_picture, location, website,
	follower_count, following_count, created_at, updated_at`

// Service provides profile management.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a users Service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Bio,
		&u.ProfilePicture, &u.CoverPicture, &u.Location, &u.Website,
		&u.FollowerCount, &u.FollowingCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]auth.User, error) {
	defer rows.Close()
	var out []auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if out == nil {
		out = []auth.User{}
	}
	return out, rows.Err()
}

// List returns users newest-first with the total count.
func (s *Service) List(ctx context.Context, p webutil.PageParams) ([]auth.User, int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, userColumns)
	rows, err := s.db.Query(ctx, query, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list users", err)
	}
	list, err := collectUsers(rows)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list users", err)
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count users", err)
	}
	return list, total, nil
}

// GetByID returns the full single-user view: account, sub-records and the
// follower/following sets as shallow projections.
func (s *Service) GetByID(ctx context.Context, userID int64) (*Detail, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	detail := &Detail{User: *u}

	if detail.Experiences, err = s.listExperiences(ctx, userID); err != nil {
		return nil, err
	}
	if detail.Education, err = s.listEducation(ctx, userID); err != nil {
		return nil, err
	}
	if detail.Followers, err = s.listEdgeSummaries(ctx, userID, true); err != nil {
		return nil, err
	}
	if detail.Following, err = s.listEdgeSummaries(ctx, userID, false); err != nil {
		return nil, err
	}
	return detail, nil
}

// listEdgeSummaries renders one side of the follow graph as shallow
// profiles. followers=true selects the users following userID.
func (s *Service) listEdgeSummaries(ctx context.Context, userID int64, followers bool) ([]Summary, error) {
	join, where := "f.follower_id", "f.following_id"
	if !followers {
		join, where = "f.following_id", "f.follower_id"
	}
	query := fmt.Sprintf(`
		SELECT u.id, u.username, u.first_name, u.last_name, u.profile_picture
		FROM follows f
		JOIN users u ON u.id = %s
		WHERE %s = $1
		ORDER BY f.created_at DESC`, join, where)

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list follow edges", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Username, &sm.FirstName, &sm.LastName, &sm.ProfilePicture); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan follow edge", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// UpdateProfile applies the supplied fields to the caller's own profile.
func (s *Service) UpdateProfile(ctx context.Context, userID, callerID int64, req *UpdateProfileRequest) (*Detail, error) {
	if userID != callerID {
		return nil, apperror.NewForbiddenError("Not authorized to update this profile", nil)
	}

	var setClauses []string
	var args []interface{}
	argID := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.FirstName != nil {
		add("first_name", strings.TrimSpace(*req.FirstName))
	}
	if req.LastName != nil {
		add("last_name", strings.TrimSpace(*req.LastName))
	}
	if req.Bio != nil {
		add("bio", strings.TrimSpace(*req.Bio))
	}
	if req.Location != nil {
		add("location", strings.TrimSpace(*req.Location))
	}
	if req.Website != nil {
		add("website", strings.TrimSpace(*req.Website))
	}
	if req.ProfilePicture != nil {
		add("profile_picture", *req.ProfilePicture)
	}
	if req.CoverPicture != nil {
		add("cover_picture", *req.CoverPicture)
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, userID)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), argID)

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewNotFoundError("User not found", nil)
	}
	return s.GetByID(ctx, userID)
}

// parseDate accepts the ISO forms clients send for sub-record dates.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.NewFieldValidationError([]apperror.FieldError{
		{Field: "startDate", Message: "Please provide a valid date"},
	})
}

func parseOptionalDate(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, *value); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.NewFieldValidationError([]apperror.FieldError{
		{Field: field, Message: "Please provide a valid date"},
	})
}

func (s *Service) requireOwner(ctx context.Context, userID, callerID int64) error {
	if userID != callerID {
		return apperror.NewForbiddenError("Not authorized", nil)
	}
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return apperror.NewDatabaseError("failed to check user", err)
	}
	if !exists {
		return apperror.NewNotFoundError("User not found", nil)
	}
	return nil
}

func (s *Service) listExperiences(ctx context.Context, userID int64) ([]Experience, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, company, location, start_date, end_date, current, description, created_at, updated_at
		FROM experiences WHERE user_id = $1 ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list experiences", err)
	}
	defer rows.Close()

	out := []Experience{}
	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &e.StartDate, &e.EndDate, &e.Current, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan experience", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddExperience appends a new experience record to the caller's profile and
// returns the refreshed user.
func (s *Service) AddExperience(ctx context.Context, userID, callerID int64, req *ExperienceRequest) (*Detail, error) {
	if err := s.requireOwner(ctx, userID, callerID); err != nil {
		return nil, err
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO experiences (user_id, title, company, location, start_date, end_date, current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Company), req.Location,
		startDate, endDate, req.Current, req.Description)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add experience", err)
	}
	return s.GetByID(ctx, userID)
}

// UpdateExperience merges the supplied fields into an existing experience
// record located by its own id.
func (s *Service) UpdateExperience(ctx context.Context, userID, callerID, expID int64, req *ExperienceUpdateRequest) (*Detail, error) {
	if err := s.requireOwner(ctx, userID, callerID); err != nil {
		return nil, err
	}

	var setClauses []string
	var args []interface{}
	argID := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.Title != nil {
		add("title", strings.TrimSpace(*req.Title))
	}
	if req.Company != nil {
		add("company", strings.TrimSpace(*req.Company))
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.StartDate != nil {
		startDate, err := parseOptionalDate(req.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		add("start_date", *startDate)
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalDate(req.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
		add("end_date", *endDate)
	}
	if req.Current != nil {
		add("current", *req.Current)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, userID)
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, expID, userID)
	query := fmt.Sprintf(`UPDATE experiences SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(setClauses, ", "), argID, argID+1)

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update experience", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewNotFoundError("Experience not found", nil)
	}
	return s.GetByID(ctx, userID)
}

// DeleteExperience removes an experience record by id.
func (s *Service) DeleteExperience(ctx context.Context, userID, callerID, expID int64) (*Detail, error) {
	if err := s.requireOwner(ctx, userID, callerID); err != nil {
		return nil, err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM experiences WHERE id = $1 AND user_id = $2`, expID, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to delete experience", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewNotFoundError("Experience not found", nil)
	}
	return s.GetByID(ctx, userID)
}

func (s *Service) listEducation(ctx context.Context, userID int64) ([]Education, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, school, degree, field_of_study, start_date, end_date, current, description, created_at, updated_at
		FROM education WHERE user_id = $1 ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list education", err)
	}
	defer rows.Close()

	out := []Education{}
	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.School, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate, &e.Current, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan education", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddEducation appends a new education record to the caller's profile.
func (s *Service) AddEducation(ctx context.Context, userID, callerID int64, req *EducationRequest) (*Detail, error) {
	if err := s.requireOwner(ctx, userID, callerID); err != nil {
		return nil, err
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO education (user_id, school, degree, field_of_study, start_date, end_date, current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, strings.TrimSpace(req.School), strings.TrimSpace(req.Degree), req.FieldOfStudy,
		startDate, endDate, req.Current, req.Description)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add education", err)
	}
	return s.GetByID(ctx, userID)
}

// UpdateEducation merges the supplied fields into an existing education
// record located by its own id.
func (s *Service) UpdateEducation(ctx context.Context, userID, callerID, eduID int64, req *EducationUpdateRequest) (*Detail, error) {
	if err := s.requireOwner(ctx, userID, callerID); err != nil {
		return nil, err
	}

	var setClauses []string
	var args []interface{}
	argID := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.School != nil {
		add("school", strings.TrimSpace(*req.School))
	}
	if req.Degree != nil {
		add("degree", strings.TrimSpace(*req.Degree))
	}
	if req.FieldOfStudy != nil {
		add("field_of_study", *req.FieldOfStudy)
	}
	if req.StartDate != nil {
		startDate, err := parseOptionalDate(req.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		add("start_date", *startDate)
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalDate(req.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
		add("end_date", *endDate)
	}
	if req.Current != nil {
		add("current", *req.Current)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, userID)
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, eduID, userID)
	query := fmt.Sprintf(`UPDATE education SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(setClauses, ", "), argID, argID+1)

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update education", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewNotFoundError("Education not found", nil)
	}
	return s.GetByID(ctx, userID)
}

// DeleteEducation removes an education record by id.
func (s *Service) DeleteEducation(ctx context.Context, userID, callerID, eduID int64) (*Detail, error) {
	if err := s.requireOwner(ctx, userID, callerID); err != nil {
		return nil, err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM education WHERE id = $1 AND user_id = $2`, eduID, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to delete education", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewNotFoundError("Education not found", nil)
	}
	return s.GetByID(ctx, userID)
}

// SearchUsers matches the query as a case-insensitive substring of the
// username, first/last name or email.
func (s *Service) SearchUsers(ctx context.Context, q string, p webutil.PageParams) ([]auth.User, int64, error) {
	pattern := "%" + db.EscapeLike(q) + "%"
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userColumns)
	rows, err := s.db.Query(ctx, query, pattern, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to search users", err)
	}
	list, err := collectUsers(rows)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to search users", err)
	}

	var total int64
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1`, pattern).Scan(&total)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count search results", err)
	}
	return list, total, nil
}

// ListByFollowerCount returns users ranked by follower count, ties broken
// newest-first. Backs the explore-users page.
func (s *Service) ListByFollowerCount(ctx context.Context, p webutil.PageParams) ([]auth.User, int64, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		ORDER BY follower_count DESC, created_at DESC
		LIMIT $1 OFFSET $2`, userColumns)
	rows, err := s.db.Query(ctx, query, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list users by follower count", err)
	}
	list, err := collectUsers(rows)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list users by follower count", err)
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count users", err)
	}
	return list, total, nil
}

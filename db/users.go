package db

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/parley-chat/parley-services/models"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, roles, status, create_at, delete_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Roles, &u.Status, &u.CreateAt, &u.DeleteAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
func (c *ChatDB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		user.PasswordHash, user.Roles, user.Status, user.CreateAt, user.DeleteAt)
	return translate(err, "error inserting user")
}

// GetUser retrieves a user by id.
func (c *ChatDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := c.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate(err, "error retrieving user")
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username.
func (c *ChatDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := c.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate(err, "error retrieving user")
	}
	return u, nil
}

// GetUsersByIDs retrieves the users with the given ids, ordered by username.
func (c *ChatDB) GetUsersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	rows, err := c.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY username`, pq.Array(ids))
	if err != nil {
		return nil, translate(err, "error retrieving users")
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "error scanning user")
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserDeleteAt deactivates (non-zero) or reactivates (zero) a user.
func (c *ChatDB) UpdateUserDeleteAt(ctx context.Context, id string, deleteAt int64) error {
	return c.updateOne(ctx, "error updating user", `UPDATE users SET delete_at = $2 WHERE id = $1`, id, deleteAt)
}

// UpdateUserStatus sets a user's presence status.
func (c *ChatDB) UpdateUserStatus(ctx context.Context, id, status string) error {
	return c.updateOne(ctx, "error updating user status", `UPDATE users SET status = $2 WHERE id = $1`, id, status)
}

// CountUsers returns the number of users, active or not.
func (c *ChatDB) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, translate(err, "error counting users")
	}
	return count, nil
}

// updateOne executes an update and reports ErrNotFound when no row matched.
func (c *ChatDB) updateOne(ctx context.Context, what, query string, args ...interface{}) error {
	res, err := c.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, what)
	}
	if n == 0 {
		return translate(sql.ErrNoRows, what)
	}
	return nil
}

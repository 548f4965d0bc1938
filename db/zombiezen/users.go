package zombiezen

import (
	"context"
	"fmt"
	"strings"

	"github.com/aquanorma/credentials/db"
	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const userColumns = `id, email, name, password, avatar_url, verified, verification_token, token, daily_norma, gender, created, updated`

// newUserFromStmt creates a User struct from a SQLite statement
func newUserFromStmt(stmt *sqlite.Stmt) (*db.User, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	return &db.User{
		ID:                stmt.GetText("id"),
		Email:             stmt.GetText("email"),
		Name:              stmt.GetText("name"),
		Password:          stmt.GetText("password"),
		AvatarURL:         stmt.GetText("avatar_url"),
		Verified:          stmt.GetInt64("verified") != 0,
		VerificationToken: stmt.GetText("verification_token"), // NULL reads as ""
		Token:             stmt.GetText("token"),
		DailyNorma:        stmt.GetFloat("daily_norma"),
		Gender:            stmt.GetText("gender"),
		Created:           created,
		Updated:           updated,
	}, nil
}

// getUserBy runs a single row lookup on column. column is never user input.
// Returns:
// - *db.User: User record if found, nil if no matching record exists
// - error: Only returned for database errors, nil on successful query (even if no results)
func (d *Db) getUserBy(column, value string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User // Will remain nil if no rows found
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []any{value},
		})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	return d.getUserBy("email", email)
}

func (d *Db) GetUserById(id string) (*db.User, error) {
	return d.getUserBy("id", id)
}

// GetUserByVerificationToken finds the unverified user owning token. The
// empty token never matches, as consumed tokens are stored as NULL.
func (d *Db) GetUserByVerificationToken(token string) (*db.User, error) {
	if token == "" {
		return nil, nil
	}
	return d.getUserBy("verification_token", token)
}

// CreateUser inserts user with a fresh uuid. An empty VerificationToken is
// stored as NULL.
func (d *Db) CreateUser(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var verificationToken any
	if user.VerificationToken != "" {
		verificationToken = user.VerificationToken
	}

	var created *db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, name, password, avatar_url, verified, verification_token, daily_norma, gender)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newUserFromStmt(stmt)
				return err
			},
			Args: []any{
				uuid.NewString(),                     // 1. id
				user.Email,                           // 2. email
				user.Name,                            // 3. name
				user.Password,                        // 4. password
				user.AvatarURL,                       // 5. avatar_url
				user.Verified,                        // 6. verified
				verificationToken,                    // 7. verification_token
				dailyNormaOrDefault(user.DailyNorma), // 8. daily_norma
				user.Gender,                          // 9. gender
			},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return nil, fmt.Errorf("failed to create user: %w", db.ErrConstraintUnique)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// defaultDailyNorma matches the column default, in liters.
const defaultDailyNorma = 2.0

func dailyNormaOrDefault(v float64) float64 {
	if v <= 0 {
		return defaultDailyNorma
	}
	return v
}

// execUpdate runs an UPDATE addressing one user by id and reports
// db.ErrUserNotFound when no row changed.
func (d *Db) execUpdate(query string, args ...any) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args}); err != nil {
		return err
	}
	if conn.Changes() == 0 {
		return db.ErrUserNotFound
	}
	return nil
}

func (d *Db) VerifyEmail(userId, verificationToken string) error {
	err := d.execUpdate(
		`UPDATE users
		SET verified = true,
			verification_token = NULL,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ? AND verification_token = ?`,
		userId, verificationToken)
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

func (d *Db) UpdateToken(userId string, token string) error {
	err := d.execUpdate(
		`UPDATE users
		SET token = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		token, userId)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	return nil
}

func (d *Db) UpdatePassword(userId string, passwordHash string) error {
	err := d.execUpdate(
		`UPDATE users
		SET password = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		passwordHash, userId)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (d *Db) UpdateAvatar(userId string, avatarURL string) error {
	err := d.execUpdate(
		`UPDATE users
		SET avatar_url = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		avatarURL, userId)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}

// UpdateUser writes only the allow-listed fields set in update. An empty
// update still returns the current record.
func (d *Db) UpdateUser(userId string, update db.UserUpdate) (*db.User, error) {
	if update.IsEmpty() {
		user, err := d.GetUserById(userId)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, db.ErrUserNotFound
		}
		return user, nil
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Gender != nil {
		sets = append(sets, "gender = ?")
		args = append(args, *update.Gender)
	}
	if update.DailyNorma != nil {
		sets = append(sets, "daily_norma = ?")
		args = append(args, *update.DailyNorma)
	}
	if update.Password != nil {
		sets = append(sets, "password = ?")
		args = append(args, *update.Password)
	}
	sets = append(sets, "updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))")
	args = append(args, userId)

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var updated *db.User
	err = sqlitex.Execute(conn,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				updated, err = newUserFromStmt(stmt)
				return err
			},
			Args: args,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("failed to update user: %w", db.ErrUserNotFound)
	}

	return updated, nil
}

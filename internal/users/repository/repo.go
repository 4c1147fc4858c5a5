package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gorgija/ehour/internal/users/domain"
)

type departmentRecord struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Code      string    `gorm:"column:code"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (departmentRecord) TableName() string { return "user_departments" }

type roleRecord struct {
	Role string `gorm:"column:role;primaryKey"`
	Name string `gorm:"column:name"`
}

func (roleRecord) TableName() string { return "user_roles" }

type roleLink struct {
	UserID int64  `gorm:"column:user_id;primaryKey"`
	Role   string `gorm:"column:role;primaryKey"`
}

func (roleLink) TableName() string { return "user_to_userrole" }

type userRecord struct {
	ID           int64             `gorm:"column:id;primaryKey"`
	Username     string            `gorm:"column:username"`
	FirstName    string            `gorm:"column:first_name"`
	LastName     string            `gorm:"column:last_name"`
	Email        string            `gorm:"column:email"`
	PasswordHash string            `gorm:"column:password_hash"`
	Active       bool              `gorm:"column:active"`
	DepartmentID *int64            `gorm:"column:department_id"`
	Department   *departmentRecord `gorm:"foreignKey:DepartmentID"`
	Roles        []roleLink        `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// UserRepository persists users, their roles and departments.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Department").Preload("Roles")
}

// List returns every user, or only the active ones. Ordering is left to the
// caller.
func (r *UserRepository) List(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	q := r.withRelations(ctx)
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var records []userRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]domain.User, 0, len(records))
	for _, rec := range records {
		out = append(out, toUser(rec))
	}
	return out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	var rec userRecord
	if err := r.withRelations(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return toUser(rec), nil
}

// FindCredentials returns the user with the given username and its password
// hash.
func (r *UserRepository) FindCredentials(ctx context.Context, username string) (domain.User, string, error) {
	var rec userRecord
	if err := r.withRelations(ctx).Where("username = ?", username).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, "", domain.ErrNotFound
		}
		return domain.User{}, "", fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return toUser(rec), rec.PasswordHash, nil
}

// Create inserts the user and its role links in one transaction.
func (r *UserRepository) Create(ctx context.Context, in domain.UserInput, passwordHash string) (domain.User, error) {
	rec := userRecord{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Active:       in.Active,
		DepartmentID: in.DepartmentID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}
		return linkRoles(tx, rec.ID, in.Roles)
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", translate(err))
	}
	return r.FindByID(ctx, rec.ID)
}

// Update replaces the writable fields and the role set of user id. The
// password hash is left untouched.
func (r *UserRepository) Update(ctx context.Context, id int64, in domain.UserInput) (domain.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userRecord{ID: id}).Updates(map[string]any{
			"username":      in.Username,
			"first_name":    in.FirstName,
			"last_name":     in.LastName,
			"email":         in.Email,
			"active":        in.Active,
			"department_id": in.DepartmentID,
			"updated_at":    time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Exec(`DELETE FROM user_to_userrole WHERE user_id = ?`, id).Error; err != nil {
			return err
		}
		return linkRoles(tx, id, in.Roles)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("failed to update user %d: %w", id, translate(err))
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) ChangePassword(ctx context.Context, id int64, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": passwordHash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("failed to change password of user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the user. Role links cascade; a user still referenced by
// assignments or projects is not deletable.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&userRecord{}, id)
	if res.Error != nil {
		var pqErr *pq.Error
		if errors.As(res.Error, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrNotDeletable
		}
		return fmt.Errorf("failed to delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListRoles reads the role reference table.
func (r *UserRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var records []roleRecord
	if err := r.db.WithContext(ctx).Order("role").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	out := make([]domain.Role, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.Role{Role: rec.Role, Name: rec.Name})
	}
	return out, nil
}

func (r *UserRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var records []departmentRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	out := make([]domain.Department, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.Department{ID: rec.ID, Code: rec.Code, Name: rec.Name})
	}
	return out, nil
}

func (r *UserRepository) CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	rec := departmentRecord{Code: d.Code, Name: d.Name}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Department{}, fmt.Errorf("failed to create department: %w", translate(err))
	}
	return domain.Department{ID: rec.ID, Code: rec.Code, Name: rec.Name}, nil
}

func linkRoles(tx *gorm.DB, userID int64, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	return tx.Exec(
		`INSERT INTO user_to_userrole (user_id, role) SELECT ?, UNNEST(?::text[]) ON CONFLICT DO NOTHING`,
		userID, pq.Array(roles),
	).Error
}

// translate maps constraint violations onto domain errors.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505":
		return domain.ErrDuplicate
	case "23503":
		return fmt.Errorf("%w: unknown department or role", domain.ErrInvalidInput)
	}
	return err
}

func toUser(rec userRecord) domain.User {
	u := domain.User{
		ID:        rec.ID,
		Username:  rec.Username,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Active:    rec.Active,
		Roles:     make([]string, 0, len(rec.Roles)),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Department != nil {
		u.Department = &domain.Department{ID: rec.Department.ID, Code: rec.Department.Code, Name: rec.Department.Name}
	}
	for _, l := range rec.Roles {
		u.Roles = append(u.Roles, l.Role)
	}
	return u
}

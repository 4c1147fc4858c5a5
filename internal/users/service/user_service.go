package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	assigndomain "github.com/Gorgija/ehour/internal/assignments/domain"
	"github.com/Gorgija/ehour/internal/users/domain"
)

const minPasswordLength = 8

// UserStore is the persistence port for users and departments.
type UserStore interface {
	List(ctx context.Context, activeOnly bool) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, in domain.UserInput, passwordHash string) (domain.User, error)
	Update(ctx context.Context, id int64, in domain.UserInput) (domain.User, error)
	ChangePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	ListRoles(ctx context.Context) ([]domain.Role, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error)
}

// AssignmentIDs lists the assignment ids of a user.
type AssignmentIDs interface {
	IDsForUser(ctx context.Context, userID int64) ([]int64, error)
}

// HoursStore reports recorded hours per assignment.
type HoursStore interface {
	CumulatedHoursForAssignments(ctx context.Context, ids []int64) ([]assigndomain.AssignmentHours, error)
}

// RoleCache serves the role reference table.
type RoleCache interface {
	Roles(ctx context.Context, load func(context.Context) ([]domain.Role, error)) ([]domain.Role, error)
}

type UserService struct {
	store          UserStore
	assignments    AssignmentIDs
	hours          HoursStore
	roles          RoleCache
	splitAdminRole bool
	logger         *slog.Logger

	collatorMu sync.Mutex
	collator   *collate.Collator
}

// NewUserService creates a new UserService
func NewUserService(store UserStore, assignments AssignmentIDs, hours HoursStore, roles RoleCache, splitAdminRole bool, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:          store,
		assignments:    assignments,
		hours:          hours,
		roles:          roles,
		splitAdminRole: splitAdminRole,
		logger:         logger,
		collator:       collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics),
	}
}

func (s *UserService) ActiveUsers(ctx context.Context) ([]domain.User, error) {
	return s.Users(ctx, true)
}

// Users lists users sorted by last name, then first name.
func (s *UserService) Users(ctx context.Context, hideInactive bool) ([]domain.User, error) {
	users, err := s.store.List(ctx, hideInactive)
	if err != nil {
		return nil, err
	}
	s.sortUsers(users)
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) User(ctx context.Context, id int64) (domain.User, error) {
	return s.store.FindByID(ctx, id)
}

// UserAndCheckDeletability loads user id and marks it deletable when none of
// its assignments has booked hours.
func (s *UserService) UserAndCheckDeletability(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	ids, err := s.assignments.IDsForUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	booked, err := s.hours.CumulatedHoursForAssignments(ctx, ids)
	if err != nil {
		return domain.User{}, err
	}
	u.Deletable = len(booked) == 0
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, editor domain.User, in domain.UserInput) (domain.User, error) {
	if err := s.validate(ctx, in); err != nil {
		return domain.User{}, err
	}
	if err := checkPassword(in.Password); err != nil {
		return domain.User{}, err
	}
	if !s.AllowedToModify(editor, domain.User{Roles: in.Roles}) {
		return domain.User{}, domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.store.Create(ctx, normalize(in), string(hash))
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "editor_id", editor.ID)
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, editor domain.User, id int64, in domain.UserInput) (domain.User, error) {
	if err := s.validate(ctx, in); err != nil {
		return domain.User{}, err
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !s.AllowedToModify(editor, current) || !s.AllowedToModify(editor, domain.User{Roles: in.Roles}) {
		return domain.User{}, domain.ErrForbidden
	}

	return s.store.Update(ctx, id, normalize(in))
}

// ChangePassword replaces the password of user id. Users may always change
// their own password.
func (s *UserService) ChangePassword(ctx context.Context, editor domain.User, id int64, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	if editor.ID != id {
		target, err := s.store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !s.AllowedToModify(editor, target) {
			return domain.ErrForbidden
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.ChangePassword(ctx, id, string(hash))
}

func (s *UserService) DeleteUser(ctx context.Context, editor domain.User, id int64) error {
	u, err := s.UserAndCheckDeletability(ctx, id)
	if err != nil {
		return err
	}
	if !s.AllowedToModify(editor, u) {
		return domain.ErrForbidden
	}
	if !u.Deletable {
		return domain.ErrNotDeletable
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id, "editor_id", editor.ID)
	return nil
}

// AllowedToModify reports whether editor may change target. With a split
// admin role only admins may touch admins.
func (s *UserService) AllowedToModify(editor, target domain.User) bool {
	return AllowedToModify(editor, target, s.splitAdminRole)
}

func AllowedToModify(editor, target domain.User, splitAdminRole bool) bool {
	if !splitAdminRole {
		return true
	}
	return editor.HasRole(domain.RoleAdmin) || !target.HasRole(domain.RoleAdmin)
}

func (s *UserService) UserRoles(ctx context.Context) ([]domain.Role, error) {
	if s.roles == nil {
		return s.store.ListRoles(ctx)
	}
	return s.roles.Roles(ctx, s.store.ListRoles)
}

// UserDepartments lists departments sorted by name.
func (s *UserService) UserDepartments(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	s.collatorMu.Lock()
	defer s.collatorMu.Unlock()
	slices.SortStableFunc(depts, func(a, b domain.Department) int {
		return s.collator.CompareString(a.Name, b.Name)
	})
	if depts == nil {
		depts = []domain.Department{}
	}
	return depts, nil
}

func (s *UserService) CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	d.Code = strings.TrimSpace(d.Code)
	d.Name = strings.TrimSpace(d.Name)
	if d.Code == "" || d.Name == "" {
		return domain.Department{}, fmt.Errorf("%w: department code and name are required", domain.ErrInvalidInput)
	}
	return s.store.CreateDepartment(ctx, d)
}

// sortUsers orders by last name then first name, ignoring case and accents.
// A Collator keeps internal buffers, hence the lock.
func (s *UserService) sortUsers(users []domain.User) {
	s.collatorMu.Lock()
	defer s.collatorMu.Unlock()

	slices.SortStableFunc(users, func(a, b domain.User) int {
		if c := s.collator.CompareString(a.LastName, b.LastName); c != 0 {
			return c
		}
		return s.collator.CompareString(a.FirstName, b.FirstName)
	})
}

func (s *UserService) validate(ctx context.Context, in domain.UserInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrInvalidInput)
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: invalid email %q", domain.ErrInvalidInput, email)
		}
	}
	if len(in.Roles) == 0 {
		return fmt.Errorf("%w: at least one role is required", domain.ErrInvalidInput)
	}

	known, err := s.UserRoles(ctx)
	if err != nil {
		return err
	}
	for _, r := range in.Roles {
		if !slices.ContainsFunc(known, func(k domain.Role) bool { return k.Role == r }) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownRole, r)
		}
	}
	return nil
}

func checkPassword(p string) error {
	if len(p) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	return nil
}

func normalize(in domain.UserInput) domain.UserInput {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Roles = slices.Compact(slices.Sorted(slices.Values(in.Roles)))
	return in
}

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	dbmodels "github.com/gartstein/onboarding/internal/onboarding/db/models"
	e "github.com/gartstein/onboarding/internal/onboarding/errors"
	"github.com/gartstein/onboarding/internal/onboarding/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	// Driver is DriverPostgres (the default) or DriverSQLite.
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite database file, or ":memory:".
	Path string
	// MaxRetries bounds the connection attempts made with exponential backoff.
	MaxRetries uint64
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		path := c.Path
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// NewRepository connects to the configured database, retrying with
// exponential backoff, and migrates the schema.
func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var db *gorm.DB
	connect := func() error {
		db, err = gorm.Open(dialector, gormCfg)
		if err != nil {
			logger.Warn("database not ready", zap.Error(err))
		}
		return err
	}
	if err := backoff.Retry(connect, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.MaxRetries)); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// An in-memory database lives and dies with its connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(dbmodels.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", e.ErrStorage, op, err)
}

func (r *Repository) CreateOnboardingRequest(ctx context.Context, req *models.OnboardingRequest) error {
	row := onboardingRequestToRow(req)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return storageErr("create onboarding request", err)
	}
	*req = *onboardingRequestFromRow(row)
	return nil
}

// ListOnboardingRequests returns every request, newest first.
func (r *Repository) ListOnboardingRequests(ctx context.Context) ([]*models.OnboardingRequest, error) {
	var rows []dbmodels.OnboardingRequest
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, storageErr("list onboarding requests", err)
	}
	out := make([]*models.OnboardingRequest, 0, len(rows))
	for i := range rows {
		out = append(out, onboardingRequestFromRow(&rows[i]))
	}
	return out, nil
}

func (r *Repository) GetOnboardingRequest(ctx context.Context, id uuid.UUID) (*models.OnboardingRequest, error) {
	var row dbmodels.OnboardingRequest
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, storageErr("get onboarding request", result.Error)
	}
	return onboardingRequestFromRow(&row), nil
}

// MarkEnrolled flips is_enrolled to true. It only matches a pending row, so
// a request enrolled by a concurrent transaction yields ErrAlreadyProcessed.
func (r *Repository) MarkEnrolled(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.OnboardingRequest{}).
		Where("id = ? AND is_enrolled = ?", id, false).
		Update("is_enrolled", true)
	if result.Error != nil {
		return storageErr("mark request enrolled", result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrAlreadyProcessed
	}
	return nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	var row dbmodels.AppUser
	result := r.db.WithContext(ctx).First(&row, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, storageErr("find user by email", result.Error)
	}
	return appUserFromRow(&row), nil
}

func (r *Repository) CreateUser(ctx context.Context, user *models.AppUser) error {
	row := appUserToRow(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", e.ErrUserConflict, user.Email)
		}
		return storageErr("create user", err)
	}
	*user = *appUserFromRow(row)
	return nil
}

func (r *Repository) UpdateUserName(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.AppUser{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return storageErr("update user name", result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var row dbmodels.Role
	result := r.db.WithContext(ctx).First(&row, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, storageErr("find role", result.Error)
	}
	return roleFromRow(&row), nil
}

// EnsureRoles creates the named roles that do not exist yet.
func (r *Repository) EnsureRoles(ctx context.Context, names ...string) error {
	for _, name := range names {
		var row dbmodels.Role
		if err := r.db.WithContext(ctx).Where(dbmodels.Role{Name: name}).FirstOrCreate(&row).Error; err != nil {
			return storageErr("ensure role "+name, err)
		}
	}
	return nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	row := companyToRow(company)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return storageErr("create company", err)
	}
	*company = *companyFromRow(row)
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var row dbmodels.Company
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, storageErr("get company", result.Error)
	}
	return companyFromRow(&row), nil
}

// CreateUserCompanyRole inserts a binding. A duplicate triple means the
// binding was already made, which only a repeated approval can do.
func (r *Repository) CreateUserCompanyRole(ctx context.Context, binding *models.UserCompanyRole) error {
	row := userCompanyRoleToRow(binding)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: role binding exists", e.ErrAlreadyProcessed)
		}
		return storageErr("create role binding", err)
	}
	*binding = *userCompanyRoleFromRow(row)
	return nil
}

// ListUserCompanyRoles returns the bindings held by a user.
func (r *Repository) ListUserCompanyRoles(ctx context.Context, userID uuid.UUID) ([]*models.UserCompanyRole, error) {
	var rows []dbmodels.UserCompanyRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, storageErr("list role bindings", err)
	}
	out := make([]*models.UserCompanyRole, 0, len(rows))
	for i := range rows {
		out = append(out, userCompanyRoleFromRow(&rows[i]))
	}
	return out, nil
}

// Count returns the number of rows in table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
		return 0, storageErr("count "+table, err)
	}
	return count, nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// Package postgres contains the GORM/PostgreSQL credential store.
package postgres

import (
	"context"
	"log/slog"
	"sync"

	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/lifecycle"
	"demohub/internal/domain/repository"
	"demohub/internal/errors"
	"demohub/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// CredentialStore keeps one row per record in the credentials table. Save and
// Update rewrite the table inside one transaction. Update additionally takes
// an exclusive table lock, so writers in other processes are serialized too.
type CredentialStore struct {
	db     *gorm.DB
	logger *slog.Logger
	mu     sync.Mutex

	cancelMonitor context.CancelFunc
}

var _ repository.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore wraps an open GORM handle.
func NewCredentialStore(db *gorm.DB, logger *slog.Logger) *CredentialStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &CredentialStore{db: db, logger: logger}
}

// Start pings the database, migrates the credentials table and starts the
// pool monitor.
func (s *CredentialStore) Start(startCtx context.Context) error {
	ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping PostgreSQL")
	}
	if err := s.Migrate(ctx); err != nil {
		return err
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	s.cancelMonitor = cancelMonitor
	go monitorDBPool(monitorCtx, s.logger, sqlDB, dbPoolMonitorInterval)

	return nil
}

// Migrate creates or updates the credentials table.
func (s *CredentialStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.CredentialModel{}); err != nil {
		return errors.Wrap(err, "failed to migrate credentials table")
	}

	return nil
}

// Close stops the monitor and closes the pool.
func (s *CredentialStore) Close() error {
	if s.cancelMonitor != nil {
		s.cancelMonitor()
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	return sqlDB.Close()
}

func (s *CredentialStore) Load(ctx context.Context) (entity.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return loadAll(s.db.WithContext(ctx))
}

func (s *CredentialStore) Save(ctx context.Context, records entity.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *gorm.DB) error {
		return replaceAll(tx, records)
	})
}

func (s *CredentialStore) Update(ctx context.Context, fn repository.MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("LOCK TABLE credentials IN EXCLUSIVE MODE").Error; err != nil {
			return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
		}

		records, err := loadAll(tx)
		if err != nil {
			return err
		}

		updated, err := fn(records)
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "update credentials")
		}

		return replaceAll(tx, updated)
	})
}

// withTx runs fn within a single database transaction. If fn returns an
// error or panics the transaction is rolled back.
func (s *CredentialStore) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(tx.Error.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			s.logger.WarnContext(ctx, "Credential transaction rollback failed", slog.Any("error", rbErr))
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	return nil
}

func loadAll(db *gorm.DB) (entity.Credentials, error) {
	var rows []model.CredentialModel
	if err := db.Order("position").Find(&rows).Error; err != nil {
		return nil, domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	records := make(entity.Credentials, 0, len(rows))
	for _, row := range rows {
		access := []string(row.Access)
		if access == nil {
			access = []string{}
		}
		records = append(records, &entity.Credential{
			Username:     row.Username,
			PasswordHash: row.PasswordHash,
			Access:       access,
			IsActive:     row.IsActive,
		})
	}

	return records, nil
}

func replaceAll(tx *gorm.DB, records entity.Credentials) error {
	err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.CredentialModel{}).Error
	if err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	rows := make([]model.CredentialModel, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		access := r.Access
		if access == nil {
			access = []string{}
		}
		rows = append(rows, model.CredentialModel{
			Position:     len(rows),
			Username:     r.Username,
			PasswordHash: r.PasswordHash,
			Access:       access,
			IsActive:     r.IsActive,
		})
	}

	if len(rows) == 0 {
		return nil
	}

	if err := tx.Create(&rows).Error; err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	return nil
}

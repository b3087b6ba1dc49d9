package appointmenttype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/dbmetrics"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/psqlbuilder"
)

var typeColumns = []string{
	"id",
	"account_id",
	"name",
	"duration_minutes",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"is_active",
	"price",
	"currency",
	"created_at",
	"updated_at",
}

// Repository репозиторий типов записей.
// Типы создаются и редактируются админским CRUD - здесь только чтение.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов записей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тип записи по ID в рамках аккаунта
func (r *Repository) GetByID(ctx context.Context, accountID, typeID int64) (*domain.AppointmentType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(typeColumns...).
		From("appointment_types").
		Where(squirrel.Eq{"id": typeID}).
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.AppointmentType
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.AccountID,
		&t.Name,
		&t.DurationMinutes,
		&t.BufferBeforeMinutes,
		&t.BufferAfterMinutes,
		&t.IsActive,
		&t.Price,
		&t.Currency,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

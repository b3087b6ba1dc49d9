package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/dbmetrics"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/psqlbuilder"
)

// Коды ошибок PostgreSQL, означающие конфликт конкурентных записей
const (
	pgExclusionViolation   = "23P01"
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

var appointmentColumns = []string{
	"id",
	"account_id",
	"appointment_type_id",
	"start_time",
	"end_time",
	"occupied_from",
	"occupied_to",
	"status",
	"manage_token",
	"calendar_event_id",
	"visitor_name",
	"visitor_email",
	"visitor_phone",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// IsConflict возвращает true, если ошибка означает конфликт конкурентных
// бронирований: нарушение exclusion/unique constraint либо сбой сериализации.
// Вызывающий код обязан показать такой конфликт пользователю как 409,
// а не как внутреннюю ошибку сервера.
func IsConflict(err error) bool {
	if errors.Is(err, ErrSlotTaken) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pgExclusionViolation || code == pgUniqueViolation || code == pgSerializationFailure
	}
	return false
}

// Create создает новую запись со статусом confirmed.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с существующей активной записью аккаунта отклоняется
// constraint-ом appointments_no_overlap и возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"account_id",
			"appointment_type_id",
			"start_time",
			"end_time",
			"occupied_from",
			"occupied_to",
			"status",
			"manage_token",
			"visitor_name",
			"visitor_email",
			"visitor_phone",
			"notes",
		).
		Values(
			apt.AccountID,
			apt.AppointmentTypeID,
			apt.StartTime,
			apt.EndTime,
			apt.OccupiedFrom,
			apt.OccupiedTo,
			apt.Status,
			apt.ManageToken,
			apt.VisitorName,
			apt.VisitorEmail,
			apt.VisitorPhone,
			apt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&apt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgExclusionViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time

	return apt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByManageToken получает запись по токену управления посетителя
func (r *Repository) GetByManageToken(ctx context.Context, token uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"manage_token": token}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByManageToken - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByManageToken")
}

// GetByAccountAndRange получает активные записи аккаунта, чье занимаемое окно
// пересекает [from, to). Внутри транзакции добавляет FOR UPDATE: путь
// создания бронирования блокирует конкурентные вставки на тот же период.
func (r *Repository) GetByAccountAndRange(ctx context.Context, accountID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where(squirrel.Lt{"occupied_from": to}).
		Where(squirrel.Gt{"occupied_to": from}).
		OrderBy("occupied_from ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAccountAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAccountAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListWithFilter получает записи аккаунта с гибкой фильтрацией
// по периоду, статусу и включению отмененных
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"account_id": filter.AccountID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// Cancel переводит запись в статус cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// SetCalendarEventID сохраняет ID события внешнего календаря после его создания
func (r *Repository) SetCalendarEventID(ctx context.Context, id int64, eventID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("calendar_event_id", eventID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetCalendarEventID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetCalendarEventID - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetCalendarEventID - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// scanOne сканирует одну запись из *sql.Row
func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Appointment, error) {
	var apt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&apt.ID,
		&apt.AccountID,
		&apt.AppointmentTypeID,
		&apt.StartTime,
		&apt.EndTime,
		&apt.OccupiedFrom,
		&apt.OccupiedTo,
		&apt.Status,
		&apt.ManageToken,
		&apt.CalendarEventID,
		&apt.VisitorName,
		&apt.VisitorEmail,
		&apt.VisitorPhone,
		&apt.Notes,
		&apt.CancellationReason,
		&apt.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time

	return &apt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var apt domain.Appointment
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&apt.ID,
			&apt.AccountID,
			&apt.AppointmentTypeID,
			&apt.StartTime,
			&apt.EndTime,
			&apt.OccupiedFrom,
			&apt.OccupiedTo,
			&apt.Status,
			&apt.ManageToken,
			&apt.CalendarEventID,
			&apt.VisitorName,
			&apt.VisitorEmail,
			&apt.VisitorPhone,
			&apt.Notes,
			&apt.CancellationReason,
			&apt.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		apt.CreatedAt = createdAt.Time
		apt.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

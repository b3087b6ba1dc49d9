package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/dbmetrics"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/psqlbuilder"
)

// Repository репозиторий расписания: еженедельные правила, overrides на дату
// и настройки доступности. Эти сущности редактируются админским CRUD другого
// сервиса - ядро расписания их только читает.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklyRules получает еженедельные правила аккаунта на день недели.
// Возвращает ноль и более правил; пересечения сливает резолвер.
func (r *Repository) GetWeeklyRules(ctx context.Context, accountID int64, day time.Weekday) ([]*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"account_id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_available",
		"created_at",
		"updated_at",
	).
		From("weekly_rules").
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"day_of_week": int(day)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WeeklyRule, 0)
	for rows.Next() {
		var rule domain.WeeklyRule
		var dayOfWeek int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.AccountID,
			&dayOfWeek,
			&rule.StartTime,
			&rule.EndTime,
			&rule.IsAvailable,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyRules - scan row: %v", ErrScanRow, err)
		}

		rule.DayOfWeek = time.Weekday(dayOfWeek)
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetDateOverride получает override аккаунта на календарную дату.
// Возвращает nil без ошибки, если override на эту дату не задан.
func (r *Repository) GetDateOverride(ctx context.Context, accountID int64, date time.Time) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"account_id",
		"date",
		"is_available",
		"start_time",
		"end_time",
		"reason",
		"created_at",
		"updated_at",
	).
		From("date_overrides").
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDateOverride - build select query: %v", ErrBuildQuery, err)
	}

	var override domain.DateOverride
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&override.ID,
		&override.AccountID,
		&override.Date,
		&override.IsAvailable,
		&override.StartTime,
		&override.EndTime,
		&override.Reason,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDateOverride - scan row: %v", ErrScanRow, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return &override, nil
}

// GetSettings получает настройки доступности аккаунта
func (r *Repository) GetSettings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"account_id",
		"timezone",
		"min_notice_minutes",
		"days_ahead",
		"calendar_sync_enabled",
		"degrade_on_calendar_error",
		"created_at",
		"updated_at",
	).
		From("availability_settings").
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.AvailabilitySettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.AccountID,
		&settings.Timezone,
		&settings.MinNoticeMinutes,
		&settings.DaysAhead,
		&settings.CalendarSyncEnabled,
		&settings.DegradeOnCalendarError,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan row: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/dberrors"
	"github.com/yigit/edupath/internal/pkg/helpers"
	"github.com/yigit/edupath/internal/pkg/logger"
)

// PostgresUniversityRepository handles university database operations
type PostgresUniversityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUniversityRepository creates a new PostgresUniversityRepository
func NewUniversityRepository(db *pgxpool.Pool) *PostgresUniversityRepository {
	return &PostgresUniversityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var universityColumns = []string{"id", "name", "country", "city", "website", "description", "created_at", "updated_at"}

func scanUniversity(row pgx.Row) (*models.University, error) {
	u := &models.University{}
	err := row.Scan(&u.ID, &u.Name, &u.Country, &u.City, &u.Website, &u.Description, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a university
func (r *PostgresUniversityRepository) Create(ctx context.Context, university *models.University) (int64, error) {
	sql, args, err := r.sb.Insert("universities").
		Columns("name", "country", "city", "website", "description").
		Values(university.Name, university.Country, university.City, university.Website, university.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create university SQL")
		return 0, fmt.Errorf("failed to build create university query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&university.ID, &university.CreatedAt, &university.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create university query")
		return 0, fmt.Errorf("error creating university: %w", err)
	}
	return university.ID, nil
}

// GetByID retrieves a university by ID
func (r *PostgresUniversityRepository) GetByID(ctx context.Context, id int64) (*models.University, error) {
	sql, args, err := r.sb.Select(universityColumns...).From("universities").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get university query: %w", err)
	}

	university, err := scanUniversity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUniversityNotFound
		}
		logger.Error().Err(err).Int64("universityID", id).Msg("Error scanning university row")
		return nil, fmt.Errorf("error getting university: %w", err)
	}
	return university, nil
}

// List returns universities filtered by country and search text
func (r *PostgresUniversityRepository) List(ctx context.Context, filter dto.UniversityFilter) ([]*models.University, error) {
	query := r.sb.Select(universityColumns...).From("universities").OrderBy("name ASC")
	if filter.Country != "" {
		query = query.Where(squirrel.ILike{"country": strings.TrimSpace(filter.Country)})
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := helpers.LikePattern(filter.Search)
		query = query.Where(squirrel.Or{squirrel.ILike{"name": pattern}, squirrel.ILike{"city": pattern}})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list universities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list universities query")
		return nil, fmt.Errorf("error querying universities: %w", err)
	}
	defer rows.Close()

	universities := []*models.University{}
	for rows.Next() {
		university, err := scanUniversity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning university row: %w", err)
		}
		universities = append(universities, university)
	}
	return universities, rows.Err()
}

// Update saves a university
func (r *PostgresUniversityRepository) Update(ctx context.Context, university *models.University) error {
	sql, args, err := r.sb.Update("universities").
		SetMap(map[string]interface{}{
			"name":        university.Name,
			"country":     university.Country,
			"city":        university.City,
			"website":     university.Website,
			"description": university.Description,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": university.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update university query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Int64("universityID", university.ID).Msg("Error executing update university query")
		return fmt.Errorf("error updating university: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUniversityNotFound
	}
	return nil
}

// Delete removes a university without programs
func (r *PostgresUniversityRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("universities").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete university query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUniversityHasPrograms
		}
		logger.Error().Err(err).Int64("universityID", id).Msg("Error executing delete university query")
		return fmt.Errorf("error deleting university: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUniversityNotFound
	}
	return nil
}

// Countries returns the distinct countries of the catalog
func (r *PostgresUniversityRepository) Countries(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT country").From("universities").OrderBy("country ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build countries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying countries: %w", err)
	}
	defer rows.Close()

	countries := []string{}
	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			return nil, fmt.Errorf("error scanning country: %w", err)
		}
		countries = append(countries, country)
	}
	return countries, rows.Err()
}

// PostgresProgramRepository handles program database operations
type PostgresProgramRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProgramRepository creates a new PostgresProgramRepository
func NewProgramRepository(db *pgxpool.Pool) *PostgresProgramRepository {
	return &PostgresProgramRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var programColumns = []string{
	"p.id", "p.university_id", "u.name", "u.country", "p.name", "p.degree_level", "p.language",
	"p.duration_years", "p.tuition_fee", "p.currency", "p.description", "p.created_at", "p.updated_at",
}

func scanProgram(row pgx.Row) (*models.Program, error) {
	p := &models.Program{}
	err := row.Scan(
		&p.ID, &p.UniversityID, &p.UniversityName, &p.Country, &p.Name, &p.DegreeLevel, &p.Language,
		&p.DurationYears, &p.TuitionFee, &p.Currency, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PostgresProgramRepository) selectPrograms() squirrel.SelectBuilder {
	return r.sb.Select(programColumns...).From("programs p").Join("universities u ON u.id = p.university_id")
}

// Create inserts a program
func (r *PostgresProgramRepository) Create(ctx context.Context, program *models.Program) (int64, error) {
	sql, args, err := r.sb.Insert("programs").
		Columns("university_id", "name", "degree_level", "language", "duration_years", "tuition_fee", "currency", "description").
		Values(program.UniversityID, program.Name, program.DegreeLevel, program.Language, program.DurationYears,
			program.TuitionFee, program.Currency, program.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create program SQL")
		return 0, fmt.Errorf("failed to build create program query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&program.ID, &program.CreatedAt, &program.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUniversityNotFound
		}
		logger.Error().Err(err).Msg("Error executing create program query")
		return 0, fmt.Errorf("error creating program: %w", err)
	}
	return program.ID, nil
}

// GetByID retrieves a program with its university
func (r *PostgresProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	sql, args, err := r.selectPrograms().Where(squirrel.Eq{"p.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	program, err := scanProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Int64("programID", id).Msg("Error scanning program row")
		return nil, fmt.Errorf("error getting program: %w", err)
	}
	return program, nil
}

func programWhere(filter dto.ProgramFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Country != "" {
		where = append(where, squirrel.ILike{"u.country": strings.TrimSpace(filter.Country)})
	}
	if filter.DegreeLevel != "" {
		where = append(where, squirrel.Eq{"p.degree_level": filter.DegreeLevel})
	}
	if filter.Language != "" {
		where = append(where, squirrel.ILike{"p.language": strings.TrimSpace(filter.Language)})
	}
	if filter.UniversityID > 0 {
		where = append(where, squirrel.Eq{"p.university_id": filter.UniversityID})
	}
	if filter.MaxFee > 0 {
		where = append(where, squirrel.LtOrEq{"p.tuition_fee": filter.MaxFee})
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := helpers.LikePattern(filter.Search)
		where = append(where, squirrel.Or{squirrel.ILike{"p.name": pattern}, squirrel.ILike{"u.name": pattern}})
	}
	return where
}

// List returns a page of programs matching the filter and the total count
func (r *PostgresProgramRepository) List(ctx context.Context, filter dto.ProgramFilter, offset uint64, limit int) ([]*models.Program, int64, error) {
	where := programWhere(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("programs p").
		Join("universities u ON u.id = p.university_id").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count programs query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting programs")
		return nil, 0, fmt.Errorf("error counting programs: %w", err)
	}

	sql, args, err := r.selectPrograms().Where(where).OrderBy("p.name ASC", "p.id ASC").
		Offset(offset).Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list programs query")
		return nil, 0, fmt.Errorf("error querying programs: %w", err)
	}
	defer rows.Close()

	programs := []*models.Program{}
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning program row: %w", err)
		}
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating program rows: %w", err)
	}
	return programs, total, nil
}

// Update saves a program
func (r *PostgresProgramRepository) Update(ctx context.Context, program *models.Program) error {
	sql, args, err := r.sb.Update("programs").
		SetMap(map[string]interface{}{
			"university_id":  program.UniversityID,
			"name":           program.Name,
			"degree_level":   program.DegreeLevel,
			"language":       program.Language,
			"duration_years": program.DurationYears,
			"tuition_fee":    program.TuitionFee,
			"currency":       program.Currency,
			"description":    program.Description,
			"updated_at":     squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": program.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update program query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUniversityNotFound
		}
		logger.Error().Err(err).Int64("programID", program.ID).Msg("Error executing update program query")
		return fmt.Errorf("error updating program: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}
	return nil
}

// Delete removes a program
func (r *PostgresProgramRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("programs").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete program query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("programID", id).Msg("Error executing delete program query")
		return fmt.Errorf("error deleting program: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}
	return nil
}

// CountByUniversity counts the programs of a university
func (r *PostgresProgramRepository) CountByUniversity(ctx context.Context, universityID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("programs").Where(squirrel.Eq{"university_id": universityID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count programs query: %w", err)
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting programs: %w", err)
	}
	return count, nil
}

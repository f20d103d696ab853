package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/models"
)

// resourceRepository is the PostgreSQL-backed implementation of
// [ResourceRepository]. Every master-data kind lives in the single
// "resources" table; kind-specific fields are marshalled into the
// attributes JSONB column.
type resourceRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewResourceRepository constructs a [ResourceRepository] backed by the
// provided database connection and logger.
func NewResourceRepository(db *DB, logger *logger.Logger) ResourceRepository {
	logger.Debug().Msg("creating resource repository")
	return &resourceRepository{
		db:     db,
		logger: logger,
	}
}

// CreateResource persists a new master-data record and returns the stored
// row with server-assigned fields (ID, CreatedAt, UpdatedAt).
func (r *resourceRepository) CreateResource(ctx context.Context, resource models.Resource) (models.Resource, error) {
	log := logger.FromContext(ctx)

	attributes, err := marshalAttributes(resource.Attributes)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.CreateResource").Msg("error: marshalling attributes")
		return models.Resource{}, err
	}

	row := r.db.QueryRowContext(ctx, createResource,
		string(resource.Kind), resource.Name, resource.Description, attributes,
		resource.IsActive, resource.AdminID, resource.SuperAdminID)

	if err = row.Err(); err != nil {
		log.Err(err).Str("func", "*resourceRepository.CreateResource").Msg("error: row is nil")
		return models.Resource{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	created, err := scanResource(row)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.CreateResource").Msg("error: scanning error")
		return models.Resource{}, err
	}

	return created, nil
}

// FindResourceByID retrieves one record by kind and identifier. The kind is
// part of the lookup key so an edit screen for one entity type can never
// pull a row of another.
func (r *resourceRepository) FindResourceByID(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findResourceByID, string(kind), id)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*resourceRepository.FindResourceByID").Msg("error: row is nil")
		return models.Resource{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resource{}, ErrResourceNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.FindResourceByID").Msg("error: scanning error")
		return models.Resource{}, err
	}

	return found, nil
}

// ListResources fetches every record of one kind, ordered by id. Archived
// rows are included only when requested; filtering, sorting and pagination
// happen in the service layer.
func (r *resourceRepository) ListResources(ctx context.Context, kind models.ResourceKind, includeArchived bool) ([]models.Resource, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListResourcesQuery(kind, includeArchived)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.ListResources").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.ListResources").Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	resources := make([]models.Resource, 0)
	for rows.Next() {
		resource, scanErr := scanResource(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*resourceRepository.ListResources").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		resources = append(resources, resource)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return resources, nil
}

// UpdateResource rewrites the mutable fields of a record and returns the
// stored row. The soft-delete flag is managed through [SetResourceActive].
func (r *resourceRepository) UpdateResource(ctx context.Context, resource models.Resource) (models.Resource, error) {
	log := logger.FromContext(ctx)

	attributes, err := marshalAttributes(resource.Attributes)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.UpdateResource").Msg("error: marshalling attributes")
		return models.Resource{}, err
	}

	query, args, err := buildUpdateResourceQuery(resource, attributes)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.UpdateResource").Msg("error: building query")
		return models.Resource{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Err(); err != nil {
		log.Err(err).Str("func", "*resourceRepository.UpdateResource").Msg("error: row is nil")
		return models.Resource{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	updated, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resource{}, ErrResourceNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.UpdateResource").Msg("error: scanning error")
		return models.Resource{}, err
	}

	return updated, nil
}

// SetResourceActive archives or restores a record. Only the availability
// flag changes; the rest of the row is left as it was.
func (r *resourceRepository) SetResourceActive(ctx context.Context, kind models.ResourceKind, id int64, active bool) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSetActiveQuery("resources", "id", id, active,
		sq.Eq{"resource_type": string(kind)})
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.SetResourceActive").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.SetResourceActive").Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrResourceNotFound
	}

	return nil
}

// CountResourcesByKind returns active and archived record counts per kind
// for the dashboard statistics.
func (r *resourceRepository) CountResourcesByKind(ctx context.Context) ([]models.ResourceCount, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, countResourcesByKind)
	if err != nil {
		log.Err(err).Str("func", "*resourceRepository.CountResourcesByKind").Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make([]models.ResourceCount, 0)
	for rows.Next() {
		var count models.ResourceCount
		if err = rows.Scan(&count.Kind, &count.Active, &count.Archived); err != nil {
			log.Err(err).Str("func", "*resourceRepository.CountResourcesByKind").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		counts = append(counts, count)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return counts, nil
}

func marshalAttributes(attributes map[string]string) ([]byte, error) {
	if attributes == nil {
		attributes = map[string]string{}
	}
	return json.Marshal(attributes)
}

func scanResource(row rowScanner) (models.Resource, error) {
	var (
		resource   models.Resource
		attributes []byte
	)

	err := row.Scan(&resource.ID, &resource.Kind, &resource.Name, &resource.Description,
		&attributes, &resource.IsActive, &resource.AdminID, &resource.SuperAdminID,
		&resource.CreatedAt, &resource.UpdatedAt)
	if err != nil {
		return models.Resource{}, err
	}

	if len(attributes) > 0 {
		if err = json.Unmarshal(attributes, &resource.Attributes); err != nil {
			return models.Resource{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
	}

	return resource, nil
}

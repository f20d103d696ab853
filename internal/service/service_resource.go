package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gsdportal/reserva-api/internal/listing"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/store"
	"github.com/gsdportal/reserva-api/internal/validators"
	"github.com/gsdportal/reserva-api/models"
)

// resourceListSpec wires master-data records into the shared list pipeline:
// the search matches name and description, and the sortable columns are the
// ones every resource screen renders.
var resourceListSpec = listing.Spec[models.Resource]{
	SearchFields: []func(models.Resource) string{
		func(r models.Resource) string { return r.Name },
		func(r models.Resource) string { return r.Description },
	},
	SortKeys: map[string]func(a, b models.Resource) int{
		"id": func(a, b models.Resource) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			default:
				return 0
			}
		},
		"name":        func(a, b models.Resource) int { return listing.CompareStrings(a.Name, b.Name) },
		"description": func(a, b models.Resource) int { return listing.CompareStrings(a.Description, b.Description) },
		"created_at":  func(a, b models.Resource) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
}

// resourceService is the concrete implementation of ResourceService.
// One service instance covers every resource kind; per-kind differences are
// confined to attribute validation driven by the kind's required keys.
type resourceService struct {
	resourceRepository store.ResourceRepository
	logger             *logger.Logger
}

// NewResourceService constructs a ResourceService backed by the given
// repository.
func NewResourceService(resources store.ResourceRepository, logger *logger.Logger) ResourceService {
	return &resourceService{
		resourceRepository: resources,
		logger:             logger,
	}
}

// ListResources fetches the full set of one kind and runs it through the
// filter, sort, and pagination pipeline.
func (s *resourceService) ListResources(ctx context.Context, query models.ListQuery) (models.ResourceList, error) {
	if !query.ResourceType.Valid() {
		return models.ResourceList{}, ErrUnknownResourceKind
	}

	resources, err := s.resourceRepository.ListResources(ctx, query.ResourceType, query.IncludeArchived)
	if err != nil {
		return models.ResourceList{}, fmt.Errorf("listing %s records failed: %w", query.ResourceType, err)
	}

	result := listing.Apply(resources, listing.Query{
		Search:    query.Search,
		SortField: query.SortField,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}, resourceListSpec)

	return models.ResourceList{
		Items:    result.Items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}, nil
}

// FetchResource returns a fresh copy of one record for the edit screen.
func (s *resourceService) FetchResource(ctx context.Context, kind models.ResourceKind, id int64) (models.Resource, error) {
	if !kind.Valid() {
		return models.Resource{}, ErrUnknownResourceKind
	}
	if id == 0 {
		return models.Resource{}, ErrInvalidDataProvided
	}

	resource, err := s.resourceRepository.FindResourceByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, store.ErrResourceNotFound) {
			return models.Resource{}, err
		}
		return models.Resource{}, fmt.Errorf("fetching %s record failed: %w", kind, err)
	}

	return resource, nil
}

// SaveResource validates and persists a new record. The record starts
// active and carries the actor's audit stamp.
func (s *resourceService) SaveResource(ctx context.Context, resource models.Resource, actor Actor) (models.Resource, error) {
	log := logger.FromContext(ctx)

	if err := s.prepare(&resource); err != nil {
		log.Warn().Err(err).Str("kind", string(resource.Kind)).Msg("rejected resource payload")
		return models.Resource{}, err
	}

	resource.IsActive = true
	resource.AdminID, resource.SuperAdminID = actor.AdminIDs()

	created, err := s.resourceRepository.CreateResource(ctx, resource)
	if err != nil {
		log.Err(err).Str("kind", string(resource.Kind)).Msg("resource creation failed")
		return models.Resource{}, fmt.Errorf("resource creation failed: %w", err)
	}

	return created, nil
}

// UpdateResource validates and rewrites an existing record, restamping the
// audit columns with the current actor.
func (s *resourceService) UpdateResource(ctx context.Context, resource models.Resource, actor Actor) (models.Resource, error) {
	log := logger.FromContext(ctx)

	if resource.ID == 0 {
		return models.Resource{}, ErrInvalidDataProvided
	}
	if err := s.prepare(&resource); err != nil {
		log.Warn().Err(err).Str("kind", string(resource.Kind)).Msg("rejected resource payload")
		return models.Resource{}, err
	}

	resource.AdminID, resource.SuperAdminID = actor.AdminIDs()

	updated, err := s.resourceRepository.UpdateResource(ctx, resource)
	if err != nil {
		if errors.Is(err, store.ErrResourceNotFound) {
			return models.Resource{}, err
		}
		log.Err(err).Str("kind", string(resource.Kind)).Int64("id", resource.ID).Msg("resource update failed")
		return models.Resource{}, fmt.Errorf("resource update failed: %w", err)
	}

	return updated, nil
}

// SetResourceArchived flips the soft-delete flag. Nothing else about the
// row changes, so a restore brings the record back exactly as archived.
func (s *resourceService) SetResourceArchived(ctx context.Context, kind models.ResourceKind, id int64, archived bool, actor Actor) error {
	if !kind.Valid() {
		return ErrUnknownResourceKind
	}
	if id == 0 {
		return ErrInvalidDataProvided
	}

	err := s.resourceRepository.SetResourceActive(ctx, kind, id, !archived)
	if err != nil {
		if errors.Is(err, store.ErrResourceNotFound) {
			return err
		}
		return fmt.Errorf("archival toggle failed: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("kind", string(kind)).
		Int64("id", id).
		Bool("archived", archived).
		Int64("actor_id", actor.UserID).
		Msg("resource availability changed")
	return nil
}

// prepare validates the kind, sanitizes free text, and checks that every
// attribute the kind requires is present and non-empty.
func (s *resourceService) prepare(resource *models.Resource) error {
	if !resource.Kind.Valid() {
		return ErrUnknownResourceKind
	}

	resource.Name = validators.SanitizeText(resource.Name)
	resource.Description = validators.SanitizeText(resource.Description)
	if resource.Name == "" {
		return ErrInvalidDataProvided
	}

	for key, value := range resource.Attributes {
		resource.Attributes[key] = validators.SanitizeText(value)
	}

	for _, required := range resource.Kind.RequiredAttributes() {
		if resource.Attributes[required] == "" {
			return fmt.Errorf("%w: %s", ErrMissingAttributes, required)
		}
	}

	return nil
}

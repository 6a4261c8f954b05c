package actions

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/errs"
	"github.com/rpupo63/project-tracker-backend/models"
)

// View paths reported to the Revalidator after mutations.
const (
	pathProjects  = "/projects"
	pathDashboard = "/dashboard"
	pathAnalytics = "/analytics"
)

// ProjectService implements every project-lifecycle operation. Each method
// takes the acting user's id explicitly and fails closed with
// errs.ErrUnauthorized before touching storage when it is missing; every
// other outcome is a typed Result.
type ProjectService struct {
	db     database.Database
	logger zerolog.Logger
	now    func() time.Time
	reval  Revalidator
}

type Option func(*ProjectService)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *ProjectService) {
		s.now = now
	}
}

// WithRevalidator installs the view-invalidation hook.
func WithRevalidator(r Revalidator) Option {
	return func(s *ProjectService) {
		s.reval = r
	}
}

func NewProjectService(db database.Database, opts ...Option) *ProjectService {
	s := &ProjectService{
		db:     db,
		logger: log.With().Str("serviceName", "projectService").Logger(),
		now:    time.Now,
		reval:  NopRevalidator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeletedProject is the payload returned by a successful delete.
type DeletedProject struct {
	ID string `json:"id"`
}

// requireUser parses the acting user id, failing closed on anything that is
// not a well-formed id.
func (s *ProjectService) requireUser(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, errs.ErrUnauthorized
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return uid, nil
}

// GetProjects returns every project owned by the caller, fully hydrated,
// most recently updated first.
func (s *ProjectService) GetProjects(userID string) (Result[[]*models.Project], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[[]*models.Project]{}, err
	}

	projects, err := s.db.ProjectRepo().FindAllByUser(uid)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list projects")
		return failure[[]*models.Project](CodeGetProjects, err.Error()), nil
	}
	return success(projects), nil
}

// GetProject returns one project scoped to the caller. A project that does
// not exist and a project owned by someone else are indistinguishable.
func (s *ProjectService) GetProject(userID, projectID string) (Result[*models.Project], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[*models.Project]{}, err
	}

	pid, perr := uuid.Parse(projectID)
	if perr != nil {
		return failure[*models.Project](CodeValidation, "invalid project id"), nil
	}

	project, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", projectID).Msg("Failed to fetch project")
		return failure[*models.Project](CodeGetProject, err.Error()), nil
	}
	if project == nil {
		return failure[*models.Project](CodeProjectNotFound, "project not found"), nil
	}
	return success(project), nil
}

// CreateProject validates the input, inserts the project and its tags, and
// returns the fully-loaded project.
func (s *ProjectService) CreateProject(userID string, input CreateProjectInput) (Result[*models.Project], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[*models.Project]{}, err
	}

	in, fieldErrs := validateCreateProject(input)
	if len(fieldErrs) > 0 {
		return failure[*models.Project](CodeValidation, fieldErrs[0].Message), nil
	}

	project := &models.Project{
		UserID:        uid,
		Name:          in.Name,
		Description:   in.Description,
		RepositoryURL: in.RepositoryURL,
		LiveURL:       in.LiveURL,
		Status:        in.Status,
		StartDate:     in.StartDate,
		IsPublic:      in.IsPublic,
	}
	if err := s.db.ProjectRepo().Add(project); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create project")
		return failure[*models.Project](CodeCreateProject, err.Error()), nil
	}

	if len(in.Tags) > 0 {
		if err := s.db.ProjectTagRepo().AddMany(project.ID, in.Tags); err != nil {
			s.logger.Error().Err(err).Str("projectID", project.ID.String()).Msg("Failed to create project tags")
			return failure[*models.Project](CodeCreateProject, err.Error()), nil
		}
	}

	created, err := s.db.ProjectRepo().FindByIDAndUser(project.ID, uid)
	if err != nil || created == nil {
		s.logger.Error().Err(err).Msg("Failed to reload created project")
		return failure[*models.Project](CodeCreateProject, "failed to load created project"), nil
	}

	s.reval.Revalidate(pathProjects, pathDashboard, pathAnalytics)
	return success(created), nil
}

// UpdateProject applies a partial update. When tags are supplied (even as an
// empty list) the whole tag set is replaced, not merged.
func (s *ProjectService) UpdateProject(userID string, input UpdateProjectInput) (Result[*models.Project], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[*models.Project]{}, err
	}

	in, fieldErrs := validateUpdateProject(input)
	if len(fieldErrs) > 0 {
		return failure[*models.Project](CodeValidation, fieldErrs[0].Message), nil
	}

	pid, perr := uuid.Parse(in.ID)
	if perr != nil {
		return failure[*models.Project](CodeValidation, "invalid project id"), nil
	}

	existing, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to fetch project for update")
		return failure[*models.Project](CodeUpdateProject, err.Error()), nil
	}
	if existing == nil {
		return failure[*models.Project](CodeProjectNotFound, "project not found"), nil
	}

	fields := map[string]any{"updated_at": s.now()}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = emptyToNil(in.Description)
	}
	if in.RepositoryURL != nil {
		fields["repository_url"] = emptyToNil(in.RepositoryURL)
	}
	if in.LiveURL != nil {
		fields["live_url"] = emptyToNil(in.LiveURL)
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		fields["end_date"] = *in.EndDate
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.IsPublic != nil {
		fields["is_public"] = *in.IsPublic
	}

	if err := s.db.ProjectRepo().UpdateFields(pid, fields); err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to update project")
		return failure[*models.Project](CodeUpdateProject, err.Error()), nil
	}

	if in.Tags != nil {
		if err := s.db.ProjectTagRepo().ReplaceForProject(pid, *in.Tags); err != nil {
			s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to replace project tags")
			return failure[*models.Project](CodeUpdateProject, err.Error()), nil
		}
	}

	updated, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil || updated == nil {
		s.logger.Error().Err(err).Msg("Failed to reload updated project")
		return failure[*models.Project](CodeUpdateProject, "failed to load updated project"), nil
	}

	s.reval.Revalidate(pathProjects, pathProjects+"/"+in.ID, pathDashboard, pathAnalytics)
	return success(updated), nil
}

// CompleteProject marks a project finished: endDate is set (default now),
// abandonedAt is cleared, and any abandonment record is deleted.
func (s *ProjectService) CompleteProject(userID string, input CompleteProjectInput) (Result[*models.Project], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[*models.Project]{}, err
	}

	in, fieldErrs := validateCompleteProject(input, s.now())
	if len(fieldErrs) > 0 {
		return failure[*models.Project](CodeValidation, fieldErrs[0].Message), nil
	}

	pid, perr := uuid.Parse(in.ID)
	if perr != nil {
		return failure[*models.Project](CodeValidation, "invalid project id"), nil
	}

	existing, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to fetch project for completion")
		return failure[*models.Project](CodeCompleteProject, err.Error()), nil
	}
	if existing == nil {
		return failure[*models.Project](CodeProjectNotFound, "project not found"), nil
	}

	fields := map[string]any{
		"status":       models.StatusCompleted,
		"end_date":     *in.EndDate,
		"abandoned_at": nil,
		"updated_at":   s.now(),
	}
	if err := s.db.ProjectRepo().UpdateFields(pid, fields); err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to complete project")
		return failure[*models.Project](CodeCompleteProject, err.Error()), nil
	}

	if err := s.db.AbandonmentRepo().DeleteByProject(pid); err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to delete abandonment record")
		return failure[*models.Project](CodeCompleteProject, err.Error()), nil
	}

	completed, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil || completed == nil {
		return failure[*models.Project](CodeCompleteProject, "failed to load completed project"), nil
	}

	s.reval.Revalidate(pathProjects, pathProjects+"/"+in.ID, pathDashboard, pathAnalytics)
	return success(completed), nil
}

// AbandonProject marks a project abandoned and upserts its abandonment
// record. Re-abandoning overwrites the existing record.
func (s *ProjectService) AbandonProject(userID string, input AbandonProjectInput) (Result[*models.Project], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[*models.Project]{}, err
	}

	in, fieldErrs := validateAbandonProject(input)
	if len(fieldErrs) > 0 {
		return failure[*models.Project](CodeValidation, fieldErrs[0].Message), nil
	}

	pid, perr := uuid.Parse(in.ID)
	if perr != nil {
		return failure[*models.Project](CodeValidation, "invalid project id"), nil
	}

	existing, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to fetch project for abandonment")
		return failure[*models.Project](CodeAbandonProject, err.Error()), nil
	}
	if existing == nil {
		return failure[*models.Project](CodeProjectNotFound, "project not found"), nil
	}

	now := s.now()
	fields := map[string]any{
		"status":       models.StatusAbandoned,
		"abandoned_at": now,
		"end_date":     nil,
		"updated_at":   now,
	}
	if err := s.db.ProjectRepo().UpdateFields(pid, fields); err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to abandon project")
		return failure[*models.Project](CodeAbandonProject, err.Error()), nil
	}

	record := &models.ProjectAbandonment{
		ProjectID:        pid,
		MainReason:       in.MainReason,
		SecondaryReasons: in.SecondaryReasons,
		Retrospective:    in.Retrospective,
		LessonsLearned:   in.LessonsLearned,
	}
	if err := s.db.AbandonmentRepo().Upsert(record); err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to upsert abandonment record")
		return failure[*models.Project](CodeAbandonProject, err.Error()), nil
	}

	abandoned, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil || abandoned == nil {
		return failure[*models.Project](CodeAbandonProject, "failed to load abandoned project"), nil
	}

	s.reval.Revalidate(pathProjects, pathProjects+"/"+in.ID, pathDashboard, pathAnalytics)
	return success(abandoned), nil
}

// ReviveProject sets a completed or abandoned project back to ACTIVE and
// appends an immutable revival record. Both endDate and abandonedAt are
// cleared so the ACTIVE-state invariant holds.
func (s *ProjectService) ReviveProject(userID string, input ReviveProjectInput) (Result[*models.Project], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[*models.Project]{}, err
	}

	in, fieldErrs := validateReviveProject(input)
	if len(fieldErrs) > 0 {
		return failure[*models.Project](CodeValidation, fieldErrs[0].Message), nil
	}

	pid, perr := uuid.Parse(in.ID)
	if perr != nil {
		return failure[*models.Project](CodeValidation, "invalid project id"), nil
	}

	existing, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to fetch project for revival")
		return failure[*models.Project](CodeReviveProject, err.Error()), nil
	}
	if existing == nil {
		return failure[*models.Project](CodeProjectNotFound, "project not found"), nil
	}

	if existing.Status != models.StatusAbandoned && existing.Status != models.StatusCompleted {
		return failure[*models.Project](CodeInvalidStatus, "only a completed or abandoned project can be revived"), nil
	}

	now := s.now()
	fields := map[string]any{
		"status":       models.StatusActive,
		"abandoned_at": nil,
		"end_date":     nil,
		"updated_at":   now,
	}
	if err := s.db.ProjectRepo().UpdateFields(pid, fields); err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to revive project")
		return failure[*models.Project](CodeReviveProject, err.Error()), nil
	}

	revival := &models.ProjectRevival{
		ProjectID: pid,
		RevivedAt: now,
		Note:      in.Note,
	}
	if err := s.db.RevivalRepo().Add(revival); err != nil {
		s.logger.Error().Err(err).Str("projectID", in.ID).Msg("Failed to record revival")
		return failure[*models.Project](CodeReviveProject, err.Error()), nil
	}

	revived, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil || revived == nil {
		return failure[*models.Project](CodeReviveProject, "failed to load revived project"), nil
	}

	s.reval.Revalidate(pathProjects, pathProjects+"/"+in.ID, pathDashboard, pathAnalytics)
	return success(revived), nil
}

// DeleteProject removes a project; tags, abandonment and revivals cascade.
func (s *ProjectService) DeleteProject(userID, projectID string) (Result[DeletedProject], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[DeletedProject]{}, err
	}

	pid, perr := uuid.Parse(projectID)
	if perr != nil {
		return failure[DeletedProject](CodeValidation, "invalid project id"), nil
	}

	existing, err := s.db.ProjectRepo().FindByIDAndUser(pid, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", projectID).Msg("Failed to fetch project for deletion")
		return failure[DeletedProject](CodeDeleteProject, err.Error()), nil
	}
	if existing == nil {
		return failure[DeletedProject](CodeProjectNotFound, "project not found"), nil
	}

	if err := s.db.ProjectRepo().Delete(pid); err != nil {
		s.logger.Error().Err(err).Str("projectID", projectID).Msg("Failed to delete project")
		return failure[DeletedProject](CodeDeleteProject, err.Error()), nil
	}

	s.reval.Revalidate(pathProjects, pathDashboard, pathAnalytics)
	return success(DeletedProject{ID: projectID}), nil
}

// emptyToNil converts an explicit empty string into a NULL column value.
func emptyToNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

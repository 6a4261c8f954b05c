package actions

import (
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/rpupo63/project-tracker-backend/models"
)

// Field length limits in characters, mirrored by the column types in models.
const (
	maxNameLen          = 100
	maxDescriptionLen   = 2000
	maxTagLen           = 50
	maxTags             = 10
	maxRetrospectiveLen = 5000
	maxLessonsLen       = 2000
	maxReviveNoteLen    = 1000
)

// FieldError describes a single failed constraint on a named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreateProjectInput carries everything needed to create a project. Status
// defaults to ACTIVE and visibility to private when unset.
type CreateProjectInput struct {
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	RepositoryURL *string              `json:"repositoryUrl"`
	LiveURL       *string              `json:"liveUrl"`
	StartDate     time.Time            `json:"startDate"`
	Status        models.ProjectStatus `json:"status"`
	IsPublic      bool                 `json:"isPublic"`
	Tags          []string             `json:"tags"`
}

// UpdateProjectInput is a partial update: nil pointer fields are left
// untouched. Tags is a pointer to distinguish "not supplied" (nil) from
// "replace with this set"; an empty non-nil slice clears all tags.
type UpdateProjectInput struct {
	ID            string                `json:"id"`
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	RepositoryURL *string               `json:"repositoryUrl"`
	LiveURL       *string               `json:"liveUrl"`
	StartDate     *time.Time            `json:"startDate"`
	EndDate       *time.Time            `json:"endDate"`
	Status        *models.ProjectStatus `json:"status"`
	IsPublic      *bool                 `json:"isPublic"`
	Tags          *[]string             `json:"tags"`
}

type CompleteProjectInput struct {
	ID      string     `json:"id"`
	EndDate *time.Time `json:"endDate"`
}

type AbandonProjectInput struct {
	ID               string                     `json:"id"`
	MainReason       models.AbandonmentReason   `json:"mainReason"`
	SecondaryReasons []models.AbandonmentReason `json:"secondaryReasons"`
	Retrospective    *string                    `json:"retrospective"`
	LessonsLearned   *string                    `json:"lessonsLearned"`
}

type ReviveProjectInput struct {
	ID   string  `json:"id"`
	Note *string `json:"note"`
}

// validateCreateProject checks constraints and returns the normalized input:
// empty-string optionals become nil, tags are deduplicated, status and
// visibility get their defaults.
func validateCreateProject(in CreateProjectInput) (CreateProjectInput, []FieldError) {
	var errs []FieldError

	if in.Name == "" {
		errs = append(errs, FieldError{"name", "name is required"})
	} else if utf8.RuneCountInString(in.Name) > maxNameLen {
		errs = append(errs, FieldError{"name", fmt.Sprintf("name cannot exceed %d characters", maxNameLen)})
	}

	in.Description = normalizeText(in.Description, "description", maxDescriptionLen, &errs)
	in.RepositoryURL = normalizeURL(in.RepositoryURL, "repositoryUrl", &errs)
	in.LiveURL = normalizeURL(in.LiveURL, "liveUrl", &errs)

	if in.StartDate.IsZero() {
		errs = append(errs, FieldError{"startDate", "start date is required"})
	}

	if in.Status == "" {
		in.Status = models.StatusActive
	} else if !models.ValidStatus(in.Status) {
		errs = append(errs, FieldError{"status", fmt.Sprintf("unknown status %q", in.Status)})
	}

	in.Tags = normalizeTags(in.Tags, &errs)

	return in, errs
}

func validateUpdateProject(in UpdateProjectInput) (UpdateProjectInput, []FieldError) {
	var errs []FieldError

	requireID(in.ID, &errs)

	if in.Name != nil {
		if *in.Name == "" {
			errs = append(errs, FieldError{"name", "name is required"})
		} else if utf8.RuneCountInString(*in.Name) > maxNameLen {
			errs = append(errs, FieldError{"name", fmt.Sprintf("name cannot exceed %d characters", maxNameLen)})
		}
	}

	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		errs = append(errs, FieldError{"description", fmt.Sprintf("description cannot exceed %d characters", maxDescriptionLen)})
	}
	if in.RepositoryURL != nil {
		in.RepositoryURL = normalizeURLKeepEmpty(in.RepositoryURL, "repositoryUrl", &errs)
	}
	if in.LiveURL != nil {
		in.LiveURL = normalizeURLKeepEmpty(in.LiveURL, "liveUrl", &errs)
	}

	if in.Status != nil && !models.ValidStatus(*in.Status) {
		errs = append(errs, FieldError{"status", fmt.Sprintf("unknown status %q", *in.Status)})
	}

	if in.Tags != nil {
		tags := normalizeTags(*in.Tags, &errs)
		in.Tags = &tags
	}

	return in, errs
}

func validateCompleteProject(in CompleteProjectInput, now time.Time) (CompleteProjectInput, []FieldError) {
	var errs []FieldError
	requireID(in.ID, &errs)
	if in.EndDate == nil || in.EndDate.IsZero() {
		in.EndDate = &now
	}
	return in, errs
}

func validateAbandonProject(in AbandonProjectInput) (AbandonProjectInput, []FieldError) {
	var errs []FieldError
	requireID(in.ID, &errs)

	if in.MainReason == "" {
		errs = append(errs, FieldError{"mainReason", "main reason is required"})
	} else if !models.ValidReason(in.MainReason) {
		errs = append(errs, FieldError{"mainReason", fmt.Sprintf("unknown reason %q", in.MainReason)})
	}

	// Secondary reasons supplement the main one; the main reason itself and
	// duplicates are filtered out rather than rejected.
	if len(in.SecondaryReasons) > 0 {
		seen := make(map[models.AbandonmentReason]bool, len(in.SecondaryReasons))
		filtered := in.SecondaryReasons[:0]
		for _, reason := range in.SecondaryReasons {
			if !models.ValidReason(reason) {
				errs = append(errs, FieldError{"secondaryReasons", fmt.Sprintf("unknown reason %q", reason)})
				continue
			}
			if reason == in.MainReason || seen[reason] {
				continue
			}
			seen[reason] = true
			filtered = append(filtered, reason)
		}
		in.SecondaryReasons = filtered
	}

	in.Retrospective = normalizeText(in.Retrospective, "retrospective", maxRetrospectiveLen, &errs)
	in.LessonsLearned = normalizeText(in.LessonsLearned, "lessonsLearned", maxLessonsLen, &errs)

	return in, errs
}

func validateReviveProject(in ReviveProjectInput) (ReviveProjectInput, []FieldError) {
	var errs []FieldError
	requireID(in.ID, &errs)
	in.Note = normalizeText(in.Note, "note", maxReviveNoteLen, &errs)
	return in, errs
}

func requireID(id string, errs *[]FieldError) {
	if id == "" {
		*errs = append(*errs, FieldError{"id", "project id is required"})
	}
}

// normalizeText enforces a character limit and collapses empty strings to nil.
func normalizeText(s *string, field string, maxLen int, errs *[]FieldError) *string {
	if s == nil {
		return nil
	}
	if utf8.RuneCountInString(*s) > maxLen {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s cannot exceed %d characters", field, maxLen)})
		return s
	}
	if *s == "" {
		return nil
	}
	return s
}

// normalizeURL requires an absolute http(s) URL, or empty (normalized to nil).
func normalizeURL(s *string, field string, errs *[]FieldError) *string {
	if s == nil || *s == "" {
		return nil
	}
	if !isValidURL(*s) {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s is not a valid URL", field)})
	}
	return s
}

// normalizeURLKeepEmpty is the update-path variant: an explicit empty string
// survives normalization so the action knows to null the column.
func normalizeURLKeepEmpty(s *string, field string, errs *[]FieldError) *string {
	if s == nil || *s == "" {
		return s
	}
	if !isValidURL(*s) {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s is not a valid URL", field)})
	}
	return s
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// normalizeTags enforces count and length limits and deduplicates labels
// within the set, preserving first-seen order.
func normalizeTags(tags []string, errs *[]FieldError) []string {
	if len(tags) > maxTags {
		*errs = append(*errs, FieldError{"tags", fmt.Sprintf("cannot add more than %d tags", maxTags)})
		return tags
	}
	seen := make(map[string]bool, len(tags))
	deduped := make([]string, 0, len(tags))
	for _, label := range tags {
		if label == "" {
			*errs = append(*errs, FieldError{"tags", "tag labels cannot be empty"})
			continue
		}
		if utf8.RuneCountInString(label) > maxTagLen {
			*errs = append(*errs, FieldError{"tags", fmt.Sprintf("tag labels cannot exceed %d characters", maxTagLen)})
			continue
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		deduped = append(deduped, label)
	}
	return deduped
}

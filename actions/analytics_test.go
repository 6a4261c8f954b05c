package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/project-tracker-backend/models"
)

func timePtr(t time.Time) *time.Time { return &t }

// fixtureProject builds an in-memory project for aggregate tests without
// touching the database.
func fixtureProject(status models.ProjectStatus, opts ...func(*models.Project)) *models.Project {
	p := &models.Project{
		Name:      "fixture",
		Status:    status,
		StartDate: testNow.AddDate(0, -3, 0),
		CreatedAt: testNow.AddDate(0, -3, 0),
		UpdatedAt: testNow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func withTags(labels ...string) func(*models.Project) {
	return func(p *models.Project) {
		for _, label := range labels {
			p.Tags = append(p.Tags, models.ProjectTag{Label: label})
		}
	}
}

func withAbandonment(reason models.AbandonmentReason) func(*models.Project) {
	return func(p *models.Project) {
		at := testNow.AddDate(0, -1, 0)
		p.AbandonedAt = &at
		p.Abandonment = &models.ProjectAbandonment{MainReason: reason}
	}
}

func withRevival() func(*models.Project) {
	return func(p *models.Project) {
		p.Revivals = append(p.Revivals, models.ProjectRevival{RevivedAt: testNow.AddDate(0, -1, 0)})
	}
}

func TestComputeAnalyticsStats(t *testing.T) {
	projects := []*models.Project{
		fixtureProject(models.StatusActive),
		fixtureProject(models.StatusActive),
		fixtureProject(models.StatusActive),
		fixtureProject(models.StatusCompleted),
	}

	analytics := computeAnalytics(projects, testNow)

	assert.Equal(t, 4, analytics.Stats.Total)
	assert.Equal(t, 3, analytics.Stats.Active)
	assert.Equal(t, 1, analytics.Stats.Completed)
	assert.Equal(t, 0, analytics.Stats.Abandoned)
	assert.Equal(t, 25, analytics.Stats.CompletionRate)
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	analytics := computeAnalytics(nil, testNow)

	assert.Equal(t, 0, analytics.Stats.Total)
	assert.Equal(t, 0, analytics.Stats.CompletionRate)
	assert.Len(t, analytics.MonthlyActivity, 6)
	assert.Empty(t, analytics.AbandonmentReasons)
	assert.Empty(t, analytics.TopTags)
	assert.Empty(t, analytics.TagSuccessRates)
	assert.Nil(t, analytics.KeyMetrics.AvgTimeToAbandonDays)
}

func TestMonthlyActivityWindow(t *testing.T) {
	// now = 2025-07-15, so the window is feb..jul.
	projects := []*models.Project{
		fixtureProject(models.StatusCompleted, func(p *models.Project) {
			p.CreatedAt = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
			p.EndDate = timePtr(time.Date(2025, time.July, 31, 23, 0, 0, 0, time.UTC))
		}),
		fixtureProject(models.StatusAbandoned, func(p *models.Project) {
			p.CreatedAt = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
			p.AbandonedAt = timePtr(time.Date(2025, time.April, 30, 18, 30, 0, 0, time.UTC))
		}),
		// Created before the window; contributes nothing.
		fixtureProject(models.StatusActive, func(p *models.Project) {
			p.CreatedAt = time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)
		}),
	}

	activity := monthlyActivity(projects, testNow)
	require.Len(t, activity, 6)

	months := make([]string, 0, 6)
	for _, entry := range activity {
		months = append(months, entry.Month)
	}
	assert.Equal(t, []string{"feb", "mar", "apr", "may", "jun", "jul"}, months)

	assert.Equal(t, MonthlyActivity{Month: "feb", Created: 1}, activity[0])
	assert.Equal(t, MonthlyActivity{Month: "mar", Created: 1}, activity[1])
	// An event late on the last day of the month still lands in that month.
	assert.Equal(t, MonthlyActivity{Month: "apr", Abandoned: 1}, activity[2])
	assert.Equal(t, MonthlyActivity{Month: "jul", Completed: 1}, activity[5])
}

func TestAbandonmentReasonPercentages(t *testing.T) {
	projects := []*models.Project{
		fixtureProject(models.StatusAbandoned, withAbandonment(models.ReasonBurnout)),
	}

	stats := abandonmentReasons(projects)
	require.Len(t, stats, 1)
	assert.Equal(t, AbandonmentReasonStat{Reason: models.ReasonBurnout, Count: 1, Percentage: 100}, stats[0])

	projects = append(projects,
		fixtureProject(models.StatusAbandoned, withAbandonment(models.ReasonTime)),
		fixtureProject(models.StatusAbandoned, withAbandonment(models.ReasonTime)),
	)
	stats = abandonmentReasons(projects)
	require.Len(t, stats, 2)
	assert.Equal(t, AbandonmentReasonStat{Reason: models.ReasonTime, Count: 2, Percentage: 67}, stats[0])
	assert.Equal(t, AbandonmentReasonStat{Reason: models.ReasonBurnout, Count: 1, Percentage: 33}, stats[1])
}

func TestTopTagsSortedAndCapped(t *testing.T) {
	projects := []*models.Project{
		fixtureProject(models.StatusActive, withTags("go", "react")),
		fixtureProject(models.StatusActive, withTags("go")),
		fixtureProject(models.StatusActive, withTags("aws", "react")),
	}

	tags := topTags(projects)
	require.Len(t, tags, 3)
	assert.Equal(t, TagStat{Name: "go", Count: 2}, tags[0])
	assert.Equal(t, TagStat{Name: "react", Count: 2}, tags[1])
	assert.Equal(t, TagStat{Name: "aws", Count: 1}, tags[2])

	// More than ten distinct tags get cut at ten.
	many := []*models.Project{fixtureProject(models.StatusActive, withTags(
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j",
	)), fixtureProject(models.StatusActive, withTags("k", "l"))}
	assert.Len(t, topTags(many), 10)
}

func TestTagSuccessRates(t *testing.T) {
	projects := []*models.Project{
		fixtureProject(models.StatusCompleted, withTags("react", "solo")),
		fixtureProject(models.StatusAbandoned, withTags("react"), withAbandonment(models.ReasonScope)),
		fixtureProject(models.StatusCompleted, withTags("go")),
		fixtureProject(models.StatusCompleted, withTags("go")),
	}

	rates := tagSuccessRates(projects)
	require.Len(t, rates, 2)

	// Singleton tags ("solo") are excluded; sorted by rate descending.
	assert.Equal(t, TagSuccessRate{Name: "go", Total: 2, Completed: 2, Rate: 100}, rates[0])
	assert.Equal(t, TagSuccessRate{Name: "react", Total: 2, Completed: 1, Rate: 50}, rates[1])
}

func TestKeyMetrics(t *testing.T) {
	startOfYear := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	projects := []*models.Project{
		// Started and completed this year.
		fixtureProject(models.StatusCompleted, func(p *models.Project) {
			p.CreatedAt = startOfYear.AddDate(0, 1, 0)
			p.EndDate = timePtr(startOfYear.AddDate(0, 4, 0))
		}),
		// Started last year, revived, then completed this year.
		fixtureProject(models.StatusCompleted, withRevival(), func(p *models.Project) {
			p.CreatedAt = startOfYear.AddDate(-1, 0, 0)
			p.EndDate = timePtr(startOfYear.AddDate(0, 2, 0))
		}),
		// Revived but abandoned again 10 days after its start.
		fixtureProject(models.StatusAbandoned, withRevival(), func(p *models.Project) {
			p.CreatedAt = startOfYear.AddDate(-1, 0, 0)
			p.StartDate = testNow.AddDate(0, 0, -30)
			p.AbandonedAt = timePtr(testNow.AddDate(0, 0, -20))
		}),
	}

	metrics := keyMetrics(projects, testNow)

	assert.Equal(t, 1, metrics.ProjectsStartedThisYear)
	assert.Equal(t, 2, metrics.ProjectsCompletedThisYear)
	// One of two revived projects reached COMPLETED.
	assert.Equal(t, 50, metrics.RevivalSuccessRate)
	require.NotNil(t, metrics.AvgTimeToAbandonDays)
	assert.Equal(t, 10, *metrics.AvgTimeToAbandonDays)
}

func TestRoundedPercent(t *testing.T) {
	assert.Equal(t, 0, roundedPercent(0, 0))
	assert.Equal(t, 0, roundedPercent(3, 0))
	assert.Equal(t, 50, roundedPercent(1, 2))
	assert.Equal(t, 33, roundedPercent(1, 3))
	assert.Equal(t, 67, roundedPercent(2, 3))
	assert.Equal(t, 100, roundedPercent(5, 5))
}

func TestGetProjectStatsFromDatabase(t *testing.T) {
	service, _, userID := newTestService(t)

	for i := 0; i < 3; i++ {
		createProject(t, service, userID, CreateProjectInput{Name: "active"})
	}
	completed := createProject(t, service, userID, CreateProjectInput{Name: "done"})
	_, err := service.CompleteProject(userID, CompleteProjectInput{ID: completed.ID.String()})
	require.NoError(t, err)

	abandoned := createProject(t, service, userID, CreateProjectInput{Name: "dropped"})
	_, err = service.AbandonProject(userID, AbandonProjectInput{
		ID:         abandoned.ID.String(),
		MainReason: models.ReasonTime,
	})
	require.NoError(t, err)

	result, err := service.GetProjectStats(userID)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, ProjectStats{
		Total:          5,
		Active:         3,
		Completed:      1,
		Abandoned:      1,
		CompletionRate: 20,
	}, result.Data)
}

func TestGetProjectAnalyticsScopedToUser(t *testing.T) {
	service, db, userID := newTestService(t)
	otherID := addUser(t, db, "other@example.com")

	createProject(t, service, userID, CreateProjectInput{Name: "mine"})
	createProject(t, service, otherID, CreateProjectInput{Name: "theirs"})

	result, err := service.GetProjectAnalytics(userID)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data.Stats.Total)
}

package actions

import (
	"math"
	"sort"
	"time"

	"github.com/rpupo63/project-tracker-backend/models"
)

// ProjectStats are the headline counts shown on the dashboard.
type ProjectStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Completed      int `json:"completed"`
	Abandoned      int `json:"abandoned"`
	CompletionRate int `json:"completionRate"`
}

// MonthlyActivity counts lifecycle events in one calendar month.
type MonthlyActivity struct {
	Month     string `json:"month"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
	Abandoned int    `json:"abandoned"`
}

type AbandonmentReasonStat struct {
	Reason     models.AbandonmentReason `json:"reason"`
	Count      int                      `json:"count"`
	Percentage int                      `json:"percentage"`
}

type TagStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagSuccessRate is the completion percentage for a tag, computed only over
// tags carried by at least two projects so a single data point cannot
// produce 0%/100% noise.
type TagSuccessRate struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Rate      int    `json:"rate"`
}

type KeyMetrics struct {
	ProjectsStartedThisYear   int  `json:"projectsStartedThisYear"`
	ProjectsCompletedThisYear int  `json:"projectsCompletedThisYear"`
	RevivalSuccessRate        int  `json:"revivalSuccessRate"`
	AvgTimeToAbandonDays      *int `json:"avgTimeToAbandonDays"`
}

type ProjectAnalytics struct {
	Stats              ProjectStats            `json:"stats"`
	MonthlyActivity    []MonthlyActivity       `json:"monthlyActivity"`
	AbandonmentReasons []AbandonmentReasonStat `json:"abandonmentReasons"`
	TopTags            []TagStat               `json:"topTags"`
	TagSuccessRates    []TagSuccessRate        `json:"tagSuccessRates"`
	KeyMetrics         KeyMetrics              `json:"keyMetrics"`
}

const (
	topTagsCap         = 10
	tagSuccessCap      = 6
	tagSuccessMinTotal = 2
	monthlyWindow      = 6
)

var monthLabels = [12]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// GetProjectStats returns the headline counts via a grouped count query.
func (s *ProjectService) GetProjectStats(userID string) (Result[ProjectStats], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[ProjectStats]{}, err
	}

	counts, err := s.db.ProjectRepo().CountByStatus(uid)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count projects")
		return failure[ProjectStats](CodeGetStats, err.Error()), nil
	}

	stats := ProjectStats{
		Active:    int(counts[models.StatusActive]),
		Completed: int(counts[models.StatusCompleted]),
		Abandoned: int(counts[models.StatusAbandoned]),
	}
	stats.Total = stats.Active + stats.Completed + stats.Abandoned
	stats.CompletionRate = roundedPercent(stats.Completed, stats.Total)
	return success(stats), nil
}

// GetProjectAnalytics loads the caller's full project set with relations and
// aggregates it in memory. No pagination; personal-scale data only.
func (s *ProjectService) GetProjectAnalytics(userID string) (Result[ProjectAnalytics], error) {
	uid, err := s.requireUser(userID)
	if err != nil {
		return Result[ProjectAnalytics]{}, err
	}

	projects, err := s.db.ProjectRepo().FindAllByUser(uid)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load projects for analytics")
		return failure[ProjectAnalytics](CodeGetAnalytics, err.Error()), nil
	}

	return success(computeAnalytics(projects, s.now())), nil
}

// computeAnalytics derives every aggregate from a fully-hydrated project set.
func computeAnalytics(projects []*models.Project, now time.Time) ProjectAnalytics {
	var stats ProjectStats
	stats.Total = len(projects)
	for _, p := range projects {
		switch p.Status {
		case models.StatusActive:
			stats.Active++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusAbandoned:
			stats.Abandoned++
		}
	}
	stats.CompletionRate = roundedPercent(stats.Completed, stats.Total)

	return ProjectAnalytics{
		Stats:              stats,
		MonthlyActivity:    monthlyActivity(projects, now),
		AbandonmentReasons: abandonmentReasons(projects),
		TopTags:            topTags(projects),
		TagSuccessRates:    tagSuccessRates(projects),
		KeyMetrics:         keyMetrics(projects, now),
	}
}

// monthlyActivity counts created/completed/abandoned events per calendar
// month over the trailing 6-month window ending at the current month. Each
// month spans [first of month, first of next month).
func monthlyActivity(projects []*models.Project, now time.Time) []MonthlyActivity {
	activity := make([]MonthlyActivity, 0, monthlyWindow)
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for i := monthlyWindow - 1; i >= 0; i-- {
		monthStart := currentMonth.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)
		entry := MonthlyActivity{Month: monthLabels[monthStart.Month()-1]}

		for _, p := range projects {
			if inRange(p.CreatedAt, monthStart, monthEnd) {
				entry.Created++
			}
			if p.EndDate != nil && inRange(*p.EndDate, monthStart, monthEnd) {
				entry.Completed++
			}
			if p.AbandonedAt != nil && inRange(*p.AbandonedAt, monthStart, monthEnd) {
				entry.Abandoned++
			}
		}
		activity = append(activity, entry)
	}
	return activity
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// abandonmentReasons tallies recorded main reasons, with percentages over
// all abandoned projects that have a recorded reason.
func abandonmentReasons(projects []*models.Project) []AbandonmentReasonStat {
	counts := make(map[models.AbandonmentReason]int)
	totalAbandoned := 0
	for _, p := range projects {
		if p.Abandonment != nil {
			counts[p.Abandonment.MainReason]++
			totalAbandoned++
		}
	}

	stats := make([]AbandonmentReasonStat, 0, len(counts))
	for reason, count := range counts {
		stats = append(stats, AbandonmentReasonStat{
			Reason:     reason,
			Count:      count,
			Percentage: roundedPercent(count, totalAbandoned),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Reason < stats[j].Reason
	})
	return stats
}

func topTags(projects []*models.Project) []TagStat {
	counts := make(map[string]int)
	for _, p := range projects {
		for _, tag := range p.Tags {
			counts[tag.Label]++
		}
	}

	stats := make([]TagStat, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, TagStat{Name: name, Count: count})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	if len(stats) > topTagsCap {
		stats = stats[:topTagsCap]
	}
	return stats
}

func tagSuccessRates(projects []*models.Project) []TagSuccessRate {
	type tally struct {
		total     int
		completed int
	}
	tallies := make(map[string]*tally)
	for _, p := range projects {
		for _, tag := range p.Tags {
			t := tallies[tag.Label]
			if t == nil {
				t = &tally{}
				tallies[tag.Label] = t
			}
			t.total++
			if p.Status == models.StatusCompleted {
				t.completed++
			}
		}
	}

	rates := make([]TagSuccessRate, 0, len(tallies))
	for name, t := range tallies {
		if t.total < tagSuccessMinTotal {
			continue
		}
		rates = append(rates, TagSuccessRate{
			Name:      name,
			Total:     t.total,
			Completed: t.completed,
			Rate:      roundedPercent(t.completed, t.total),
		})
	}
	sort.SliceStable(rates, func(i, j int) bool {
		if rates[i].Rate != rates[j].Rate {
			return rates[i].Rate > rates[j].Rate
		}
		return rates[i].Name < rates[j].Name
	})
	if len(rates) > tagSuccessCap {
		rates = rates[:tagSuccessCap]
	}
	return rates
}

func keyMetrics(projects []*models.Project, now time.Time) KeyMetrics {
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var metrics KeyMetrics
	var revived, revivedCompleted int
	var abandonedCount int
	var abandonedDays float64

	for _, p := range projects {
		if !p.CreatedAt.Before(startOfYear) {
			metrics.ProjectsStartedThisYear++
		}
		if p.EndDate != nil && !p.EndDate.Before(startOfYear) {
			metrics.ProjectsCompletedThisYear++
		}
		if len(p.Revivals) > 0 {
			revived++
			if p.Status == models.StatusCompleted {
				revivedCompleted++
			}
		}
		if p.AbandonedAt != nil && !p.StartDate.IsZero() {
			abandonedCount++
			abandonedDays += p.AbandonedAt.Sub(p.StartDate).Hours() / 24
		}
	}

	metrics.RevivalSuccessRate = roundedPercent(revivedCompleted, revived)
	if abandonedCount > 0 {
		avg := int(math.Round(abandonedDays / float64(abandonedCount)))
		metrics.AvgTimeToAbandonDays = &avg
	}
	return metrics
}

// roundedPercent is round(part/total*100), defined as 0 when total is 0.
func roundedPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

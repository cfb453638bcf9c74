package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/fitlifehq/gym-api/internal/domain/booking"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/timezone"
)

type AnalyticsHandler struct {
	db *gorm.DB
	tz string
}

func NewAnalyticsHandler(db *gorm.DB, tz string) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, tz: tz}
}

type dayBucket struct {
	Date     string `json:"date"`
	Workouts int    `json:"workouts"`
	Duration int    `json:"duration"`
	Calories int    `json:"calories"`
	Variety  int    `json:"variety"`
}

// Progress returns a daily time series over the requested window (default 30
// days). Aggregation happens in process so day boundaries follow the gym
// timezone on any database.
func (h *AnalyticsHandler) Progress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}

	loc := timezone.Location(h.tz)
	today := timezone.DayStart(timezone.NowIn(h.tz))
	from := today.AddDate(0, 0, -(days - 1))

	var workouts []models.Workout
	if err := h.db.Where("user_id = ? AND date >= ?", user.ID, from).
		Order("date ASC").
		Find(&workouts).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load progress data.")
		return
	}

	buckets := make([]dayBucket, days)
	index := make(map[string]int, days)
	types := make([]map[string]struct{}, days)
	for i := 0; i < days; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		buckets[i] = dayBucket{Date: key}
		index[key] = i
		types[i] = map[string]struct{}{}
	}
	for _, w := range workouts {
		key := timezone.DayStart(w.Date.In(loc)).Format("2006-01-02")
		if i, ok := index[key]; ok {
			buckets[i].Workouts++
			buckets[i].Duration += w.Duration
			buckets[i].Calories += w.TotalCalories
			types[i][w.Type] = struct{}{}
		}
	}
	for i := range buckets {
		buckets[i].Variety = len(types[i])
	}

	httpresp.OK(c, gin.H{
		"from": from.Format("2006-01-02"),
		"to":   today.Format("2006-01-02"),
		"days": buckets,
	})
}

// Weekly rolls the last N weeks up into Monday-anchored buckets.
func (h *AnalyticsHandler) Weekly(c *gin.Context) {
	user := middleware.CurrentUser(c)
	weeks, _ := strconv.Atoi(c.DefaultQuery("weeks", "12"))
	if weeks < 1 || weeks > 52 {
		weeks = 12
	}

	loc := timezone.Location(h.tz)
	today := timezone.DayStart(timezone.NowIn(h.tz))
	thisMonday := mondayOf(today)
	from := thisMonday.AddDate(0, 0, -7*(weeks-1))

	var workouts []models.Workout
	if err := h.db.Where("user_id = ? AND date >= ?", user.ID, from).
		Find(&workouts).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load weekly data.")
		return
	}

	type weekBucket struct {
		WeekStart string `json:"week_start"`
		Workouts  int    `json:"workouts"`
		Duration  int    `json:"duration"`
		Calories  int    `json:"calories"`
	}
	buckets := make([]weekBucket, weeks)
	index := make(map[string]int, weeks)
	for i := 0; i < weeks; i++ {
		key := from.AddDate(0, 0, 7*i).Format("2006-01-02")
		buckets[i] = weekBucket{WeekStart: key}
		index[key] = i
	}
	for _, w := range workouts {
		key := mondayOf(timezone.DayStart(w.Date.In(loc))).Format("2006-01-02")
		if i, ok := index[key]; ok {
			buckets[i].Workouts++
			buckets[i].Duration += w.Duration
			buckets[i].Calories += w.TotalCalories
		}
	}

	httpresp.OK(c, gin.H{"weeks": buckets})
}

// TypeDistribution reports how the caller's training splits across workout
// types.
func (h *AnalyticsHandler) TypeDistribution(c *gin.Context) {
	user := middleware.CurrentUser(c)

	type row struct {
		Type     string `json:"type"`
		Count    int64  `json:"count"`
		Duration int64  `json:"duration"`
	}
	var rows []row
	if err := h.db.Model(&models.Workout{}).
		Select("type, COUNT(*) as count, COALESCE(SUM(duration),0) as duration").
		Where("user_id = ?", user.ID).
		Group("type").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load the distribution.")
		return
	}

	var total int64
	for _, r := range rows {
		total += r.Count
	}

	httpresp.OK(c, gin.H{
		"total":        total,
		"distribution": rows,
	})
}

// Records reports personal bests: longest workout, most calories in one
// session, and the streaks tracked on the aggregate row.
func (h *AnalyticsHandler) Records(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var longest models.Workout
	hasLongest := h.db.Where("user_id = ?", user.ID).
		Order("duration DESC").First(&longest).Error == nil

	var hottest models.Workout
	hasHottest := h.db.Where("user_id = ?", user.ID).
		Order("total_calories DESC").First(&hottest).Error == nil

	var entry models.LeaderboardEntry
	_ = h.db.Where("user_id = ? AND period = ?", user.ID, models.PeriodAllTime).
		First(&entry).Error

	records := gin.H{
		"current_streak": entry.CurrentStreak,
		"longest_streak": entry.LongestStreak,
		"total_workouts": entry.TotalWorkouts,
	}
	if hasLongest {
		records["longest_workout"] = longest
	}
	if hasHottest {
		records["most_calories"] = hottest
	}

	httpresp.OK(c, records)
}

// ClassAnalytics summarizes enrollment and attendance per class. Trainers see
// their own classes; admins see everything.
func (h *AnalyticsHandler) ClassAnalytics(c *gin.Context) {
	user := middleware.CurrentUser(c)

	q := h.db.Model(&models.Class{})
	if user.Role == models.RoleTrainer {
		q = q.Where("trainer_id = ?", user.ID)
	}

	var classes []models.Class
	if err := q.Find(&classes).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not load class analytics.")
		return
	}

	type classRow struct {
		Class        models.Class `json:"class"`
		Bookings     int64        `json:"bookings"`
		Completed    int64        `json:"completed"`
		Cancelled    int64        `json:"cancelled"`
		FillRate     float64      `json:"fill_rate"`
		AttendanceOf int64        `json:"attendance_of"`
	}

	loc := timezone.Location(h.tz)
	categories := map[string]int{}
	weekdays := map[string]int64{}

	rows := make([]classRow, 0, len(classes))
	for _, class := range classes {
		categories[class.Category]++
		var byStatus []struct {
			Status string
			Count  int64
		}
		h.db.Model(&models.Booking{}).
			Select("status, COUNT(*) as count").
			Where("class_id = ?", class.ID).
			Group("status").
			Scan(&byStatus)

		row := classRow{Class: class}
		for _, s := range byStatus {
			row.Bookings += s.Count
			switch domain.Status(s.Status) {
			case domain.StatusCompleted:
				row.Completed = s.Count
			case domain.StatusCancelled:
				row.Cancelled = s.Count
			}
		}
		row.AttendanceOf = row.Bookings - row.Cancelled
		if class.MaxCapacity > 0 {
			row.FillRate = float64(class.CurrentEnrollment) / float64(class.MaxCapacity)
		}
		var dates []time.Time
		h.db.Model(&models.Booking{}).
			Where("class_id = ? AND status <> ?", class.ID, domain.StatusCancelled).
			Pluck("booking_date", &dates)
		for _, d := range dates {
			weekdays[d.In(loc).Weekday().String()]++
		}

		rows = append(rows, row)
	}

	httpresp.OK(c, gin.H{
		"classes":    rows,
		"categories": categories,
		"attendance": gin.H{"by_weekday": weekdays},
	})
}

func mondayOf(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

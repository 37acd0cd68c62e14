package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/export"
)

const clockLayout = "15:04:05"

type timetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.ClassSession, error)
	FindByID(ctx context.Context, id string) (*models.ClassSession, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
	ListOverrides(ctx context.Context, date *models.Date, class string) ([]models.SaturdayOverride, error)
	FindOverride(ctx context.Context, id string) (*models.SaturdayOverride, error)
	OverrideExists(ctx context.Context, date models.Date, class, excludeID string) (bool, error)
	CreateOverride(ctx context.Context, override *models.SaturdayOverride) error
	UpdateOverride(ctx context.Context, override *models.SaturdayOverride) error
	DeleteOverride(ctx context.Context, id string) error
}

type courseLookup interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// DaySchedule is the resolved timetable of one date.
type DaySchedule struct {
	Date    string                 `json:"date"`
	Day     models.DayOfWeek       `json:"day"`
	Classes []models.ResolvedClass `json:"classes"`
}

// scope is a resolved TimetableScope. empty means the caller can see no classes at all.
type scope struct {
	class     string
	facultyID string
	empty     bool
}

// TimetableService resolves weekly timetables, Saturday overrides and live class status.
type TimetableService struct {
	repo      timetableRepository
	courses   courseLookup
	users     actorLookup
	notifier  Notifier
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewTimetableService constructs a TimetableService. Dates and class status use loc.
func NewTimetableService(repo timetableRepository, courses courseLookup, users actorLookup, notifier Notifier, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TimetableService{
		repo:      repo,
		courses:   courses,
		users:     users,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *TimetableService) clock() time.Time {
	return s.now().In(s.loc)
}

// Today returns the local calendar date.
func (s *TimetableService) Today() models.Date {
	return models.NewDate(s.clock())
}

func (s *TimetableService) resolveScope(ctx context.Context, req models.TimetableScope) (scope, error) {
	if class := firstNonEmpty(req.Class, req.Section); class != "" {
		return scope{class: class}, nil
	}
	if req.StudentID != "" {
		student, err := s.users.FindByID(ctx, req.StudentID)
		if err != nil {
			return scope{}, lookupError(err, "student")
		}
		if student.Class == nil || *student.Class == "" {
			return scope{empty: true}, nil
		}
		return scope{class: *student.Class}, nil
	}
	if req.FacultyID != "" {
		return scope{facultyID: req.FacultyID}, nil
	}
	return scope{}, nil
}

func (sc scope) filter(day models.DayOfWeek) models.TimetableFilter {
	return models.TimetableFilter{Class: sc.class, FacultyID: sc.facultyID, Day: day}
}

// List returns the timetable entries visible to the scope.
func (s *TimetableService) List(ctx context.Context, req models.TimetableScope) ([]models.ClassSession, error) {
	sc, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}
	if sc.empty {
		return []models.ClassSession{}, nil
	}
	sessions, err := s.repo.List(ctx, sc.filter(""))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	return sessions, nil
}

// Get returns one timetable entry.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.ClassSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "class")
	}
	return session, nil
}

// ByCourse lists the timetable entries of one course.
func (s *TimetableService) ByCourse(ctx context.Context, courseID string) ([]models.ClassSession, error) {
	sessions, err := s.repo.List(ctx, models.TimetableFilter{CourseID: courseID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list course classes")
	}
	return sessions, nil
}

// Week groups the scope's timetable by weekday; every weekday is present.
func (s *TimetableService) Week(ctx context.Context, req models.TimetableScope) (models.WeeklyTimetable, error) {
	sessions, err := s.List(ctx, req)
	if err != nil {
		return nil, err
	}
	week := make(models.WeeklyTimetable, len(models.WeekDays))
	for _, day := range models.WeekDays {
		week[day] = []models.ClassSession{}
	}
	for _, session := range sessions {
		week[session.DayOfWeek] = append(week[session.DayOfWeek], session)
	}
	return week, nil
}

// OnDate resolves the classes held on date. Saturdays only show classes that an override
// maps to another weekday's timetable.
func (s *TimetableService) OnDate(ctx context.Context, date models.Date, req models.TimetableScope) (*DaySchedule, error) {
	schedule := &DaySchedule{Date: date.String(), Day: date.Weekday(), Classes: []models.ResolvedClass{}}

	sc, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}
	if sc.empty {
		return schedule, nil
	}

	var (
		sessions  []models.ClassSession
		overrides []models.SaturdayOverride
	)
	if schedule.Day == models.Saturday {
		overrides, err = s.repo.ListOverrides(ctx, &date, sc.class)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load saturday overrides")
		}
		if len(overrides) == 0 {
			return schedule, nil
		}
		sessions, err = s.repo.List(ctx, sc.filter(""))
	} else {
		sessions, err = s.repo.List(ctx, sc.filter(schedule.Day))
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load timetable")
	}

	schedule.Classes = resolveDate(date, sessions, overrides, sc.class)
	s.annotate(schedule.Classes)
	return schedule, nil
}

// TodayClasses resolves the current local date.
func (s *TimetableService) TodayClasses(ctx context.Context, req models.TimetableScope) (*DaySchedule, error) {
	return s.OnDate(ctx, s.Today(), req)
}

// CurrentAndNext returns the ongoing class and the next upcoming one today.
func (s *TimetableService) CurrentAndNext(ctx context.Context, req models.TimetableScope) (current, next *models.ResolvedClass, err error) {
	today, err := s.TodayClasses(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	current, next = pickCurrentAndNext(today.Classes)
	return current, next, nil
}

func pickCurrentAndNext(classes []models.ResolvedClass) (current, next *models.ResolvedClass) {
	for i := range classes {
		c := classes[i]
		switch c.Status {
		case models.StatusOngoing:
			if current == nil {
				current = &c
			}
		case models.StatusUpcoming:
			if next == nil {
				next = &c
			}
		}
	}
	return current, next
}

// Month resolves every date of a month with two queries.
func (s *TimetableService) Month(ctx context.Context, year int, month time.Month, req models.TimetableScope) (dto.MonthlyClasses, error) {
	if month < time.January || month > time.December {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	out := make(dto.MonthlyClasses)

	sc, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}
	if sc.empty {
		for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
			out[d.Format(models.DateLayout)] = []models.ResolvedClass{}
		}
		return out, nil
	}

	sessions, err := s.repo.List(ctx, sc.filter(""))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load timetable")
	}
	overrides, err := s.repo.ListOverrides(ctx, nil, sc.class)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load saturday overrides")
	}

	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		date := models.NewDate(d)
		classes := resolveDate(date, sessions, overrides, sc.class)
		s.annotate(classes)
		out[date.String()] = classes
	}
	return out, nil
}

// resolveDate places sessions on date. On Saturdays each override matching the date (and class,
// when known) pulls in the followed weekday's sessions of the override's own class only.
func resolveDate(date models.Date, sessions []models.ClassSession, overrides []models.SaturdayOverride, class string) []models.ResolvedClass {
	day := date.Weekday()
	out := make([]models.ResolvedClass, 0)

	if day == models.Saturday {
		for _, o := range overrides {
			if o.Date.String() != date.String() || (class != "" && o.Class != class) {
				continue
			}
			followed := o.TTFollowed
			for _, session := range sessions {
				if session.DayOfWeek == followed && session.Class == o.Class {
					out = append(out, models.ResolvedClass{ClassSession: session, Date: date.String(), FollowedDay: &followed})
				}
			}
		}
	} else {
		for _, session := range sessions {
			if session.DayOfWeek == day && (class == "" || session.Class == class) {
				out = append(out, models.ResolvedClass{ClassSession: session, Date: date.String()})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].Class < out[j].Class
	})
	return out
}

func (s *TimetableService) annotate(classes []models.ResolvedClass) {
	now := s.clock()
	for i := range classes {
		classes[i].Status = classStatus(classes[i].Date, classes[i].StartTime, classes[i].EndTime, now)
	}
}

// classStatus compares now with the class window. Bounds are inclusive; other dates are
// completed when past and upcoming when future.
func classStatus(date, start, end string, now time.Time) models.ClassStatus {
	today := now.Format(models.DateLayout)
	switch {
	case date < today:
		return models.StatusCompleted
	case date > today:
		return models.StatusUpcoming
	}
	clock := now.Format(clockLayout)
	switch {
	case clock < start:
		return models.StatusUpcoming
	case clock > end:
		return models.StatusCompleted
	default:
		return models.StatusOngoing
	}
}

// ExportWeek renders the scope's weekly timetable as csv, pdf or xlsx.
func (s *TimetableService) ExportWeek(ctx context.Context, req models.TimetableScope, rawFormat string) (*export.Document, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Validation(err, "format must be csv, pdf or xlsx")
	}
	week, err := s.Week(ctx, req)
	if err != nil {
		return nil, err
	}

	label := firstNonEmpty(req.Class, req.Section, "all classes")
	table := export.Table{
		Title:   "Weekly timetable - " + label,
		Columns: []string{"Day", "Start", "End", "Course Code", "Course", "Room", "Class"},
	}
	for _, day := range models.WeekDays {
		for _, session := range week[day] {
			table.Rows = append(table.Rows, []string{
				string(day), session.StartTime, session.EndTime,
				deref(session.CourseCode), deref(session.CourseName), deref(session.Room), session.Class,
			})
		}
	}

	doc, err := export.Render(format, "timetable-week", table)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render timetable export")
	}
	return doc, nil
}

// Create adds a weekly slot and notifies the class.
func (s *TimetableService) Create(ctx context.Context, req models.TimetableRequest) (*models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "course_id, day_of_week, start_time and end_time are required")
	}
	entry := &models.TimetableEntry{CourseID: req.CourseID, Room: req.Room, Class: req.ClassCode()}
	if err := s.fillSlot(ctx, entry, req.DayOfWeek, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, writeError(err, "create class")
	}
	session, err := s.Get(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	s.notifyChange(ctx, session, req.UserID, "New class scheduled", "added")
	return session, nil
}

// Update patches a weekly slot.
func (s *TimetableService) Update(ctx context.Context, id string, req models.TimetableUpdateRequest) (*models.ClassSession, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := current.TimetableEntry
	previousClass := entry.Class

	if req.CourseID != nil {
		entry.CourseID = *req.CourseID
	}
	if req.Room != nil {
		entry.Room = req.Room
	}
	if req.Class != nil || req.Section != nil {
		entry.Class = firstNonEmpty(deref(req.Class), deref(req.Section))
	}
	day, start, end := string(entry.DayOfWeek), entry.StartTime, entry.EndTime
	if req.DayOfWeek != nil {
		day = *req.DayOfWeek
	}
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if err := s.fillSlot(ctx, &entry, day, start, end); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &entry); err != nil {
		return nil, writeError(err, "update class")
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyChange(ctx, session, req.UserID, "Class schedule changed", "updated")
	if previousClass != "" && previousClass != session.Class {
		moved := *current
		s.notifyChange(ctx, &moved, req.UserID, "Class schedule changed", "moved to "+session.Class)
	}
	return session, nil
}

// Delete removes a weekly slot and notifies the class.
func (s *TimetableService) Delete(ctx context.Context, id, actorID string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete class")
	}
	s.notifyChange(ctx, session, actorID, "Class cancelled", "removed")
	return nil
}

func (s *TimetableService) fillSlot(ctx context.Context, entry *models.TimetableEntry, day, start, end string) error {
	if entry.Class == "" {
		return appErrors.Clone(appErrors.ErrValidation, "class is required")
	}
	dow, ok := models.ParseDayOfWeek(day)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid day_of_week %q", day))
	}
	startClock, err := models.ClockTime(start)
	if err != nil {
		return appErrors.Validation(err, "invalid start_time")
	}
	endClock, err := models.ClockTime(end)
	if err != nil {
		return appErrors.Validation(err, "invalid end_time")
	}
	if startClock >= endClock {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	if s.courses != nil {
		if _, err := s.courses.FindByID(ctx, entry.CourseID); err != nil {
			return lookupError(err, "course")
		}
	}
	entry.DayOfWeek, entry.StartTime, entry.EndTime = dow, startClock, endClock
	return nil
}

func (s *TimetableService) notifyChange(ctx context.Context, session *models.ClassSession, actorID, title, verb string) {
	if s.notifier == nil || session.Class == "" {
		return
	}
	course := firstNonEmpty(deref(session.CourseName), deref(session.CourseCode), "A class")
	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:    models.NotifTimetable,
		Title:   title,
		Message: fmt.Sprintf("%s on %s %s-%s was %s", course, session.DayOfWeek, session.StartTime, session.EndTime, verb),
		ActorID: actorID,
		Meta: map[string]interface{}{
			"class":       session.Class,
			"day_of_week": session.DayOfWeek,
			"course_id":   session.CourseID,
		},
		Links:    models.NotificationLinks{TimetableID: session.ID},
		Audience: models.Audience{Class: session.Class},
	})
}

// Overrides lists Saturday overrides, optionally for one class.
func (s *TimetableService) Overrides(ctx context.Context, class string) ([]models.SaturdayOverride, error) {
	overrides, err := s.repo.ListOverrides(ctx, nil, class)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list saturday overrides")
	}
	return overrides, nil
}

// CreateOverride maps a Saturday to another weekday's timetable for one class.
func (s *TimetableService) CreateOverride(ctx context.Context, req models.SaturdayOverrideRequest) (*models.SaturdayOverride, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "date and tt_followed are required")
	}
	override := &models.SaturdayOverride{}
	if err := s.fillOverride(ctx, override, req.Date, req.ClassCode(), req.TTFollowed); err != nil {
		return nil, err
	}
	if err := s.repo.CreateOverride(ctx, override); err != nil {
		return nil, writeError(err, "create saturday override")
	}
	s.notifyOverride(ctx, override, req.UserID, "Saturday classes scheduled")
	return override, nil
}

// UpdateOverride replaces an override's date, class or followed weekday.
func (s *TimetableService) UpdateOverride(ctx context.Context, id string, req models.SaturdayOverrideRequest) (*models.SaturdayOverride, error) {
	override, err := s.repo.FindOverride(ctx, id)
	if err != nil {
		return nil, lookupError(err, "saturday override")
	}
	date := firstNonEmpty(req.Date, override.Date.String())
	class := firstNonEmpty(req.ClassCode(), override.Class)
	followed := firstNonEmpty(req.TTFollowed, string(override.TTFollowed))
	if err := s.fillOverride(ctx, override, date, class, followed); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOverride(ctx, override); err != nil {
		return nil, writeError(err, "update saturday override")
	}
	s.notifyOverride(ctx, override, req.UserID, "Saturday classes changed")
	return override, nil
}

// DeleteOverride removes an override; the Saturday then has no classes for that class.
func (s *TimetableService) DeleteOverride(ctx context.Context, id, actorID string) error {
	override, err := s.repo.FindOverride(ctx, id)
	if err != nil {
		return lookupError(err, "saturday override")
	}
	if err := s.repo.DeleteOverride(ctx, id); err != nil {
		return writeError(err, "delete saturday override")
	}
	s.notifyOverride(ctx, override, actorID, "Saturday classes cancelled")
	return nil
}

func (s *TimetableService) fillOverride(ctx context.Context, override *models.SaturdayOverride, rawDate, class, rawFollowed string) error {
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return appErrors.Validation(err, "invalid date, expected YYYY-MM-DD")
	}
	if date.Weekday() != models.Saturday {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a Saturday", date))
	}
	if class == "" {
		return appErrors.Clone(appErrors.ErrValidation, "class is required")
	}
	followed, ok := models.ParseDayOfWeek(rawFollowed)
	if !ok || followed == models.Sunday {
		return appErrors.Clone(appErrors.ErrValidation, "tt_followed must be a weekday from monday to saturday")
	}
	exists, err := s.repo.OverrideExists(ctx, date, class, override.ID)
	if err != nil {
		return appErrors.Internal(err, "failed to check saturday override")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("class %s already has an override on %s", class, date))
	}
	override.Date, override.Class, override.TTFollowed = date, class, followed
	return nil
}

func (s *TimetableService) notifyOverride(ctx context.Context, override *models.SaturdayOverride, actorID, title string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:    models.NotifSaturdayClass,
		Title:   title,
		Message: fmt.Sprintf("On %s class %s follows the %s timetable", override.Date, override.Class, override.TTFollowed),
		ActorID: actorID,
		Meta: map[string]interface{}{
			"date":        override.Date.String(),
			"class":       override.Class,
			"tt_followed": override.TTFollowed,
		},
		Links:    models.NotificationLinks{SaturdayRowID: override.ID},
		Audience: models.Audience{Class: override.Class},
	})
}

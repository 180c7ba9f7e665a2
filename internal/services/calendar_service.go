package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/buildcrew/crew-management-api/internal/constants"
	"github.com/buildcrew/crew-management-api/internal/dto"
	"github.com/buildcrew/crew-management-api/internal/lock"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/buildcrew/crew-management-api/internal/schedule"
	"gorm.io/gorm"
)

const (
	ViewCrew    = "crew"
	ViewProject = "project"
)

var (
	ErrInvalidView     = errors.New("view must be crew or project")
	ErrInvalidDayIndex = errors.New("day index must be within the working week")
)

const dateLayout = "2006-01-02"

// CalendarService projects the task set onto a worker-day or project-day
// grid for one week and owns the calendar's single write path,
// ScheduleTask. It shares the per-task lock map with the lifecycle engine
// so calendar writes serialize against transitions on the same task.
type CalendarService struct {
	projects repository.ProjectRepository
	workers  repository.WorkerRepository
	locks    *lock.MutexMap
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(projects repository.ProjectRepository, workers repository.WorkerRepository, locks *lock.MutexMap) *CalendarService {
	return &CalendarService{
		projects: projects,
		workers:  workers,
		locks:    locks,
	}
}

// WeekInput represents a calendar aggregation request.
type WeekInput struct {
	Start         time.Time
	View          string
	FilterProject *uint64
	FilterWorker  *uint64
}

// BuildWeek aggregates assigned tasks into the weekly grid. Filters apply
// before grouping so an excluded task never counts toward a visible cell's
// overload.
func (s *CalendarService) BuildWeek(input WeekInput) (*dto.WeekResponse, error) {
	if input.View != ViewCrew && input.View != ViewProject {
		return nil, ErrInvalidView
	}

	weekStart := schedule.WeekStart(input.Start)

	filter := repository.TaskFilter{AssignedOnly: true}
	if input.FilterProject != nil {
		filter.ProjectID = input.FilterProject
	}
	// Worker filtering applies to the crew view only.
	if input.View == ViewCrew && input.FilterWorker != nil {
		filter.AssignedTo = input.FilterWorker
	}

	tasks, err := s.projects.ListTasks(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	labels, err := s.groupLabels(input.View)
	if err != nil {
		return nil, err
	}

	type cellKey struct {
		group uint64
		day   int
	}
	cells := make(map[cellKey][]models.Task)

	for _, task := range tasks {
		day := schedule.DayIndex(task.ScheduledDate, weekStart)
		if !schedule.InVisibleWeek(day) {
			// Scheduled outside the visible week; not rendered in this view.
			continue
		}

		var group uint64
		if input.View == ViewCrew {
			group = *task.AssignedTo
		} else {
			group = task.ProjectID
		}
		key := cellKey{group: group, day: day}
		cells[key] = append(cells[key], task)
	}

	response := &dto.WeekResponse{
		WeekStart:   weekStart.Format(dateLayout),
		View:        input.View,
		Unscheduled: []dto.CellDTO{},
		Days:        make([]dto.DayDTO, constants.WorkingDays),
	}
	for i := range response.Days {
		response.Days[i] = dto.DayDTO{
			Date:  schedule.DateForIndex(weekStart, i).Format(dateLayout),
			Cells: []dto.CellDTO{},
		}
	}

	for key, cellTasks := range cells {
		cell := buildCell(key.group, labels[key.group], cellTasks)
		if key.day == schedule.UnscheduledIndex {
			response.Unscheduled = append(response.Unscheduled, cell)
		} else {
			response.Days[key.day].Cells = append(response.Days[key.day].Cells, cell)
		}
	}

	sortCells(response.Unscheduled)
	for i := range response.Days {
		sortCells(response.Days[i].Cells)
	}

	return response, nil
}

// ScheduleTask writes weekStart+dayIndex onto the task's scheduled date.
// Overwrite semantics: an existing date is replaced. Assignment and status
// are untouched; the write is scoped to the scheduled_date column so a
// concurrent lifecycle transition is never reverted from a stale snapshot.
func (s *CalendarService) ScheduleTask(projectID, taskID uint64, weekStart time.Time, dayIndex int) (*models.Task, error) {
	if dayIndex < 0 || dayIndex >= constants.WorkingDays {
		return nil, ErrInvalidDayIndex
	}

	key := taskKey(taskID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	task, err := s.projects.FindTask(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	date := schedule.DateForIndex(schedule.WeekStart(weekStart), dayIndex)

	if err := s.projects.UpdateTaskScheduledDate(task.ID, date); err != nil {
		return nil, fmt.Errorf("failed to schedule task: %w", err)
	}
	task.ScheduledDate = &date

	return task, nil
}

func (s *CalendarService) groupLabels(view string) (map[uint64]string, error) {
	labels := make(map[uint64]string)

	if view == ViewCrew {
		workers, err := s.workers.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list workers: %w", err)
		}
		for _, w := range workers {
			labels[w.ID] = w.Name
		}
		return labels, nil
	}

	projects, err := s.projects.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		labels[p.ID] = p.Number
	}
	return labels, nil
}

func buildCell(groupID uint64, label string, tasks []models.Task) dto.CellDTO {
	if label == "" {
		label = strconv.FormatUint(groupID, 10)
	}

	load := schedule.Detect(tasks)

	taskDTOs := make([]dto.CalendarTaskDTO, len(tasks))
	for i, t := range tasks {
		taskDTOs[i] = dto.ToCalendarTaskDTO(t)
	}

	return dto.CellDTO{
		GroupID:    groupID,
		GroupLabel: label,
		Tasks:      taskDTOs,
		Load:       load,
		Conflict:   load.Severity == schedule.SeverityHigh,
	}
}

func sortCells(cells []dto.CellDTO) {
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].GroupID < cells[j].GroupID
	})
}

package services

import (
	"testing"
	"time"

	"github.com/buildcrew/crew-management-api/internal/lock"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/stretchr/testify/suite"
)

type LifecycleServiceTestSuite struct {
	serviceSuite
	service       *LifecycleService
	notifications *NotificationService
}

func (s *LifecycleServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	projects := repository.NewProjectRepository(s.db)
	workers := repository.NewWorkerRepository(s.db)
	s.notifications = NewNotificationService(repository.NewNotificationRepository(s.db), projects)
	s.service = NewLifecycleService(projects, workers, s.notifications, lock.NewMutexMap())
}

func (s *LifecycleServiceTestSuite) TestAssignFromUnassigned() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")
	task := s.createTask(project.ID, "Install ductwork", 4)

	scheduled := time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC)
	updated, err := s.service.Assign(AssignInput{
		ProjectID:     project.ID,
		TaskID:        task.ID,
		WorkerID:      worker.ID,
		ScheduledDate: &scheduled,
		AssignedBy:    "Office",
	})
	s.Require().NoError(err)

	s.Equal(models.TaskStatusPendingAcceptance, updated.Status)
	s.Require().NotNil(updated.AssignedTo)
	s.Equal(worker.ID, *updated.AssignedTo)
	s.Require().NotNil(updated.ScheduledDate)
	s.Equal(scheduled, updated.ScheduledDate.UTC())

	s.EqualValues(1, s.activityCount(task.ID))

	notifications := s.allNotifications()
	s.Require().Len(notifications, 1)
	s.Equal(models.NotificationTaskAssigned, notifications[0].Type)
	s.Require().NotNil(notifications[0].TargetWorkerID)
	s.Equal(worker.ID, *notifications[0].TargetWorkerID)
	s.Equal(models.PriorityHigh, notifications[0].Priority)
}

func (s *LifecycleServiceTestSuite) TestAssignOverridesEstimate() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")
	task := s.createTask(project.ID, "Rough-in wiring", 4)

	hours := 6.5
	updated, err := s.service.Assign(AssignInput{
		ProjectID:      project.ID,
		TaskID:         task.ID,
		WorkerID:       worker.ID,
		EstimatedHours: &hours,
		AssignedBy:     "Office",
	})
	s.Require().NoError(err)
	s.Equal(6.5, updated.EstimatedHours)
}

func (s *LifecycleServiceTestSuite) TestAssignInvalidFromInProgress() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")
	other := s.createWorker("Bob")
	task := s.createTask(project.ID, "Hang drywall", 4)
	s.assignTask(task, worker.ID, models.TaskStatusInProgress, nil)

	_, err := s.service.Assign(AssignInput{
		ProjectID: project.ID,
		TaskID:    task.ID,
		WorkerID:  other.ID,
	})

	var transition *TransitionError
	s.Require().ErrorAs(err, &transition)
	s.Equal(models.TaskStatusInProgress, transition.Current)
	s.Equal(models.ActionAssign, transition.Action)

	// Atomic no-op: nothing about the task changed.
	reloaded := s.reloadTask(task.ID)
	s.Equal(models.TaskStatusInProgress, reloaded.Status)
	s.Equal(worker.ID, *reloaded.AssignedTo)
	s.EqualValues(0, s.activityCount(task.ID))
	s.Empty(s.allNotifications())
}

func (s *LifecycleServiceTestSuite) TestFullLifecycle() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")
	task := s.createTask(project.ID, "Set fixtures", 3)

	_, err := s.service.Assign(AssignInput{
		ProjectID:  project.ID,
		TaskID:     task.ID,
		WorkerID:   worker.ID,
		AssignedBy: "Office",
	})
	s.Require().NoError(err)

	updated, err := s.service.ApplyWorkerAction(project.ID, task.ID, worker.ID, models.ActionAccept, "")
	s.Require().NoError(err)
	s.Equal(models.TaskStatusAccepted, updated.Status)

	updated, err = s.service.ApplyWorkerAction(project.ID, task.ID, worker.ID, models.ActionStart, "")
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, updated.Status)

	updated, err = s.service.ApplyWorkerAction(project.ID, task.ID, worker.ID, models.ActionComplete, "")
	s.Require().NoError(err)
	s.Equal(models.TaskStatusCompleted, updated.Status)
	s.Require().NotNil(updated.CompletedDate)

	reloaded := s.reloadTask(task.ID)
	s.Require().Len(reloaded.Activity, 4)
	s.Equal("assigned", reloaded.Activity[0].Action)
	s.Equal("accepted", reloaded.Activity[1].Action)
	s.Equal("started", reloaded.Activity[2].Action)
	s.Equal("completed", reloaded.Activity[3].Action)
	s.Equal("Task accepted by worker", reloaded.Activity[1].Details)
}

func (s *LifecycleServiceTestSuite) TestRejectDefaultsReasonAndClearsAssignee() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")
	task := s.createTask(project.ID, "Paint interior", 5)
	s.assignTask(task, worker.ID, models.TaskStatusPendingAcceptance, nil)

	updated, err := s.service.ApplyWorkerAction(project.ID, task.ID, worker.ID, models.ActionReject, "")
	s.Require().NoError(err)

	s.Equal(models.TaskStatusRejected, updated.Status)
	s.Equal(DefaultRejectionReason, updated.RejectionReason)
	s.Nil(updated.AssignedTo)

	notifications := s.allNotifications()
	s.Require().Len(notifications, 1)
	s.Equal(models.NotificationTaskRejected, notifications[0].Type)
	s.Equal(models.PriorityHigh, notifications[0].Priority)
}

func (s *LifecycleServiceTestSuite) TestAssignRejectAssignRoundTrip() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	bob := s.createWorker("Bob")
	task := s.createTask(project.ID, "Lay flooring", 6)

	_, err := s.service.Assign(AssignInput{ProjectID: project.ID, TaskID: task.ID, WorkerID: alice.ID})
	s.Require().NoError(err)

	_, err = s.service.ApplyWorkerAction(project.ID, task.ID, alice.ID, models.ActionReject, "double booked")
	s.Require().NoError(err)

	updated, err := s.service.Assign(AssignInput{ProjectID: project.ID, TaskID: task.ID, WorkerID: bob.ID})
	s.Require().NoError(err)

	s.Equal(models.TaskStatusPendingAcceptance, updated.Status)
	s.Require().NotNil(updated.AssignedTo)
	s.Equal(bob.ID, *updated.AssignedTo)
	s.Empty(updated.RejectionReason)

	s.EqualValues(3, s.activityCount(task.ID))
}

func (s *LifecycleServiceTestSuite) TestWorkerActionRequiresAssignee() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	bob := s.createWorker("Bob")
	task := s.createTask(project.ID, "Frame walls", 4)
	s.assignTask(task, alice.ID, models.TaskStatusPendingAcceptance, nil)

	_, err := s.service.ApplyWorkerAction(project.ID, task.ID, bob.ID, models.ActionAccept, "")
	s.Require().ErrorIs(err, ErrNotAssignee)

	reloaded := s.reloadTask(task.ID)
	s.Equal(models.TaskStatusPendingAcceptance, reloaded.Status)
	s.EqualValues(0, s.activityCount(task.ID))
}

func (s *LifecycleServiceTestSuite) TestCompleteFromAcceptedFails() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")
	task := s.createTask(project.ID, "Install roofing", 8)
	s.assignTask(task, worker.ID, models.TaskStatusAccepted, nil)

	_, err := s.service.ApplyWorkerAction(project.ID, task.ID, worker.ID, models.ActionComplete, "")

	var transition *TransitionError
	s.Require().ErrorAs(err, &transition)
	s.Equal(models.TaskStatusAccepted, transition.Current)
	s.Equal(models.ActionComplete, transition.Action)

	reloaded := s.reloadTask(task.ID)
	s.Equal(models.TaskStatusAccepted, reloaded.Status)
	s.Nil(reloaded.CompletedDate)
}

func (s *LifecycleServiceTestSuite) TestWorkerActionOnCompletedTaskFails() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")
	task := s.createTask(project.ID, "Final walkthrough", 1)
	s.assignTask(task, worker.ID, models.TaskStatusCompleted, nil)

	for _, action := range []models.TaskAction{models.ActionAccept, models.ActionStart, models.ActionComplete} {
		_, err := s.service.ApplyWorkerAction(project.ID, task.ID, worker.ID, action, "")
		var transition *TransitionError
		s.Require().ErrorAs(err, &transition, "action %s", action)
	}
}

func (s *LifecycleServiceTestSuite) TestTaskNotFound() {
	project := s.createProject("P-100")
	worker := s.createWorker("Alice")

	_, err := s.service.Assign(AssignInput{ProjectID: project.ID, TaskID: 999, WorkerID: worker.ID})
	s.Require().ErrorIs(err, ErrTaskNotFound)
}

func (s *LifecycleServiceTestSuite) TestListForWorker() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	bob := s.createWorker("Bob")

	mine := s.createTask(project.ID, "Mine", 2)
	s.assignTask(mine, alice.ID, models.TaskStatusAccepted, nil)
	theirs := s.createTask(project.ID, "Theirs", 2)
	s.assignTask(theirs, bob.ID, models.TaskStatusAccepted, nil)
	s.createTask(project.ID, "Nobody's", 2)

	tasks, err := s.service.ListForWorker(alice.ID)
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal(mine.ID, tasks[0].ID)
}

func TestLifecycleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleServiceTestSuite))
}

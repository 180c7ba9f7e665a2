package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/stretchr/testify/suite"
)

type MessageServiceTestSuite struct {
	serviceSuite
	service       *MessageService
	notifications *NotificationService
}

func (s *MessageServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	projects := repository.NewProjectRepository(s.db)
	s.notifications = NewNotificationService(repository.NewNotificationRepository(s.db), projects)
	s.service = NewMessageService(repository.NewMessageRepository(s.db), projects, s.notifications)
}

func (s *MessageServiceTestSuite) threadCount() int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.MessageThread{}).Count(&count).Error)
	return count
}

func (s *MessageServiceTestSuite) TestIsOfficeSender() {
	tests := []struct {
		sender string
		want   bool
	}{
		{"admin", true},
		{"Admin", true},
		{" ADMIN ", true},
		{"Front Office", true},
		{"office-dispatch", true},
		{"42", false},
		{"administrator-like", false},
		{"", false},
	}
	for _, tt := range tests {
		s.Equal(tt.want, IsOfficeSender(tt.sender), "sender %q", tt.sender)
	}
}

func (s *MessageServiceTestSuite) TestSingleThreadPerTask() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	task := s.createTask(project.ID, "Trim carpentry", 3)
	s.assignTask(task, alice.ID, models.TaskStatusAccepted, nil)

	_, err := s.service.SendMessage(project.ID, task.ID, "first", WorkerSender(alice.ID))
	s.Require().NoError(err)
	_, err = s.service.SendMessage(project.ID, task.ID, "second", models.SenderAdmin)
	s.Require().NoError(err)
	_, err = s.service.SendMessage(project.ID, task.ID, "third", WorkerSender(alice.ID))
	s.Require().NoError(err)

	s.EqualValues(1, s.threadCount())

	view, err := s.service.GetThread(project.ID, task.ID, models.SenderAdmin)
	s.Require().NoError(err)
	s.Require().Len(view.Messages, 3)
	s.Equal("first", view.Messages[0].Text)
	s.Equal("third", view.Messages[2].Text)
}

func (s *MessageServiceTestSuite) TestOfficeMessageNotifiesWorker() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	task := s.createTask(project.ID, "Install windows", 4)
	s.assignTask(task, alice.ID, models.TaskStatusAccepted, nil)

	_, err := s.service.SendMessage(project.ID, task.ID, "materials arrive at 7", "Front Office")
	s.Require().NoError(err)

	notifications := s.allNotifications()
	s.Require().Len(notifications, 1)
	s.Equal(models.NotificationMessageReceived, notifications[0].Type)
	s.Require().NotNil(notifications[0].TargetWorkerID)
	s.Equal(alice.ID, *notifications[0].TargetWorkerID)
	s.Equal("materials arrive at 7", notifications[0].Message)
}

func (s *MessageServiceTestSuite) TestLongOfficeMessageTruncated() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	task := s.createTask(project.ID, "Punch list", 2)
	s.assignTask(task, alice.ID, models.TaskStatusAccepted, nil)

	long := strings.Repeat("x", 150)
	_, err := s.service.SendMessage(project.ID, task.ID, long, models.SenderAdmin)
	s.Require().NoError(err)

	notifications := s.allNotifications()
	s.Require().Len(notifications, 1)
	s.Equal(strings.Repeat("x", 100)+"...", notifications[0].Message)

	// The thread keeps the full text.
	view, err := s.service.GetThread(project.ID, task.ID, models.SenderAdmin)
	s.Require().NoError(err)
	s.Require().Len(view.Messages, 1)
	s.Equal(long, view.Messages[0].Text)
}

// Truncation counts characters, not bytes, so multibyte text stays valid
// UTF-8 after the cut.
func (s *MessageServiceTestSuite) TestLongMultibyteMessageTruncatedOnRuneBoundary() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	task := s.createTask(project.ID, "Punch list", 2)
	s.assignTask(task, alice.ID, models.TaskStatusAccepted, nil)

	long := strings.Repeat("ñ", 150)
	_, err := s.service.SendMessage(project.ID, task.ID, long, models.SenderAdmin)
	s.Require().NoError(err)

	notifications := s.allNotifications()
	s.Require().Len(notifications, 1)
	s.Equal(strings.Repeat("ñ", 100)+"...", notifications[0].Message)
	s.True(utf8.ValidString(notifications[0].Message))
}

func (s *MessageServiceTestSuite) TestWorkerMessageDoesNotNotify() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	task := s.createTask(project.ID, "Site cleanup", 2)
	s.assignTask(task, alice.ID, models.TaskStatusAccepted, nil)

	_, err := s.service.SendMessage(project.ID, task.ID, "done early", WorkerSender(alice.ID))
	s.Require().NoError(err)

	s.Empty(s.allNotifications())
}

func (s *MessageServiceTestSuite) TestOfficeMessageToUnassignedTaskSkipsNotification() {
	project := s.createProject("P-100")
	task := s.createTask(project.ID, "Unassigned", 2)

	_, err := s.service.SendMessage(project.ID, task.ID, "anyone there?", models.SenderAdmin)
	s.Require().NoError(err)

	s.Empty(s.allNotifications())
}

func (s *MessageServiceTestSuite) TestSendMessageValidation() {
	project := s.createProject("P-100")
	task := s.createTask(project.ID, "Validation", 1)

	_, err := s.service.SendMessage(project.ID, task.ID, "   ", models.SenderAdmin)
	s.Require().ErrorIs(err, ErrMessageTextEmpty)

	_, err = s.service.SendMessage(project.ID, task.ID, "hello", "")
	s.Require().ErrorIs(err, ErrMessageSenderEmpty)

	_, err = s.service.SendMessage(project.ID, 999, "hello", models.SenderAdmin)
	s.Require().ErrorIs(err, ErrTaskNotFound)
}

func (s *MessageServiceTestSuite) TestMarkThreadReadSkipsOwnMessages() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	task := s.createTask(project.ID, "Read state", 2)
	s.assignTask(task, alice.ID, models.TaskStatusAccepted, nil)

	reader := WorkerSender(alice.ID)
	_, err := s.service.SendMessage(project.ID, task.ID, "from office", models.SenderAdmin)
	s.Require().NoError(err)
	_, err = s.service.SendMessage(project.ID, task.ID, "from worker", reader)
	s.Require().NoError(err)

	s.Require().NoError(s.service.MarkThreadRead(project.ID, task.ID, reader))

	view, err := s.service.GetThread(project.ID, task.ID, reader)
	s.Require().NoError(err)
	s.Require().Len(view.Messages, 2)
	for _, m := range view.Messages {
		if m.Sender == reader {
			s.False(m.Read, "reader's own message must stay unread for the other side")
		} else {
			s.True(m.Read)
		}
	}
	s.Equal(0, view.UnreadCount)

	// The admin side still sees the worker's message as unread.
	adminView, err := s.service.GetThread(project.ID, task.ID, models.SenderAdmin)
	s.Require().NoError(err)
	s.Equal(1, adminView.UnreadCount)
}

func (s *MessageServiceTestSuite) TestMarkThreadReadUnknownThread() {
	project := s.createProject("P-100")
	task := s.createTask(project.ID, "No thread", 1)

	err := s.service.MarkThreadRead(project.ID, task.ID, models.SenderAdmin)
	s.Require().ErrorIs(err, ErrThreadNotFound)
}

func (s *MessageServiceTestSuite) TestListForWorkerOnlyAssignedThreads() {
	project := s.createProject("P-100")
	alice := s.createWorker("Alice")
	bob := s.createWorker("Bob")

	mine := s.createTask(project.ID, "Mine", 2)
	s.assignTask(mine, alice.ID, models.TaskStatusAccepted, nil)
	theirs := s.createTask(project.ID, "Theirs", 2)
	s.assignTask(theirs, bob.ID, models.TaskStatusAccepted, nil)

	_, err := s.service.SendMessage(project.ID, mine.ID, "for alice", models.SenderAdmin)
	s.Require().NoError(err)
	_, err = s.service.SendMessage(project.ID, theirs.ID, "for bob", models.SenderAdmin)
	s.Require().NoError(err)

	views, err := s.service.ListForWorker(alice.ID)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(mine.ID, views[0].TaskID)
	s.Equal("P-100", views[0].ProjectNumber)
	s.Equal("Mine", views[0].TaskDescription)
	s.Equal(1, views[0].UnreadCount)
}

func TestMessageServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessageServiceTestSuite))
}

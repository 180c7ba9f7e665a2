package services

import (
	"testing"

	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/buildcrew/crew-management-api/internal/utils"
	"github.com/stretchr/testify/suite"
)

type WorkerServiceTestSuite struct {
	serviceSuite
	service *WorkerService
}

func (s *WorkerServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewWorkerService(repository.NewWorkerRepository(s.db))
}

func (s *WorkerServiceTestSuite) TestCreateWorkerGeneratesPIN() {
	worker, err := s.service.CreateWorker(WorkerInput{Name: "Alice", Role: "electrician"})
	s.Require().NoError(err)

	s.NotZero(worker.ID)
	s.True(utils.ValidPIN(worker.PIN))
	s.Equal(models.WorkerStatusActive, worker.Status)
}

func (s *WorkerServiceTestSuite) TestCreateWorkerWithSuppliedPIN() {
	worker, err := s.service.CreateWorker(WorkerInput{Name: "Alice", PIN: "7321"})
	s.Require().NoError(err)
	s.Equal("7321", worker.PIN)
}

func (s *WorkerServiceTestSuite) TestCreateWorkerRejectsDuplicatePIN() {
	_, err := s.service.CreateWorker(WorkerInput{Name: "Alice", PIN: "7321"})
	s.Require().NoError(err)

	_, err = s.service.CreateWorker(WorkerInput{Name: "Bob", PIN: "7321"})
	s.Require().ErrorIs(err, ErrPINTaken)
}

func (s *WorkerServiceTestSuite) TestCreateWorkerValidation() {
	_, err := s.service.CreateWorker(WorkerInput{Name: "  "})
	s.Require().ErrorIs(err, ErrWorkerNameRequired)

	_, err = s.service.CreateWorker(WorkerInput{Name: "Alice", PIN: "12ab"})
	s.Require().ErrorIs(err, ErrPINFormat)
}

func (s *WorkerServiceTestSuite) TestUpdateWorker() {
	worker, err := s.service.CreateWorker(WorkerInput{Name: "Alice", PIN: "7321"})
	s.Require().NoError(err)

	updated, err := s.service.UpdateWorker(worker.ID, WorkerInput{
		Name:   "Alice Kim",
		Phone:  "555-0101",
		Status: models.WorkerStatusInactive,
	})
	s.Require().NoError(err)

	s.Equal("Alice Kim", updated.Name)
	s.Equal("555-0101", updated.Phone)
	s.Equal(models.WorkerStatusInactive, updated.Status)
	s.Equal("7321", updated.PIN)
}

func (s *WorkerServiceTestSuite) TestUpdateWorkerPINCollision() {
	_, err := s.service.CreateWorker(WorkerInput{Name: "Alice", PIN: "1111"})
	s.Require().NoError(err)
	bob, err := s.service.CreateWorker(WorkerInput{Name: "Bob", PIN: "2222"})
	s.Require().NoError(err)

	_, err = s.service.UpdateWorker(bob.ID, WorkerInput{Name: "Bob", PIN: "1111"})
	s.Require().ErrorIs(err, ErrPINTaken)

	// Re-submitting his own PIN is not a collision.
	_, err = s.service.UpdateWorker(bob.ID, WorkerInput{Name: "Bob", PIN: "2222"})
	s.Require().NoError(err)
}

func (s *WorkerServiceTestSuite) TestDeleteWorker() {
	worker, err := s.service.CreateWorker(WorkerInput{Name: "Alice"})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteWorker(worker.ID))

	_, err = s.service.GetWorker(worker.ID)
	s.Require().ErrorIs(err, ErrWorkerNotFound)

	s.Require().ErrorIs(s.service.DeleteWorker(worker.ID), ErrWorkerNotFound)
}

func TestWorkerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerServiceTestSuite))
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ProjectHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProjectHandler
}

func (s *ProjectHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)

	err = s.db.AutoMigrate(
		&models.Project{},
		&models.Task{},
		&models.ActivityEntry{},
		&models.Material{},
	)
	s.Require().NoError(err)

	s.handler = NewProjectHandler(repository.NewProjectRepository(s.db))
}

func (s *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *ProjectHandlerTestSuite) postProject(body interface{}) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(asAdmin())
	r.POST("/api/projects", s.handler.CreateProject)

	var buf bytes.Buffer
	s.Require().NoError(json.NewEncoder(&buf).Encode(body))

	req, err := http.NewRequest(http.MethodPost, "/api/projects", &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (s *ProjectHandlerTestSuite) TestCreateProject() {
	w := s.postProject(gin.H{"number": "P-100", "client_name": "Test Client"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project models.Project
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &project))
	s.Equal("P-100", project.Number)
	s.Equal(models.ProjectStatusActive, project.Status)
}

// A second project with the same number is a conflict, not a store failure.
func (s *ProjectHandlerTestSuite) TestCreateProjectDuplicateNumber() {
	w := s.postProject(gin.H{"number": "P-100", "client_name": "Test Client"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.postProject(gin.H{"number": "P-100", "client_name": "Another Client"})
	s.Require().Equal(http.StatusConflict, w.Code, w.Body.String())

	var apiErr apierrors.APIError
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	s.Equal(apierrors.ErrCodeConflict, apiErr.Code)

	var count int64
	s.Require().NoError(s.db.Model(&models.Project{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *ProjectHandlerTestSuite) TestCreateProjectValidation() {
	w := s.postProject(gin.H{"client_name": "Missing Number"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}

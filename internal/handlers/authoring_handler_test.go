package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/course-authoring-service/internal/client"
	"github.com/SAP-F-2025/course-authoring-service/internal/coursesync"
	apperrors "github.com/SAP-F-2025/course-authoring-service/internal/errors"
	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/ordering"
	"github.com/SAP-F-2025/course-authoring-service/internal/services"
	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
)

// ===== MOCKS =====

type MockAuthoringService struct {
	mock.Mock
}

func (m *MockAuthoringService) SaveDraft(ctx context.Context, actor string, form *models.CourseForm) error {
	return m.Called(ctx, actor, form).Error(0)
}

func (m *MockAuthoringService) GetDraft(ctx context.Context, actor string) (*models.CourseForm, error) {
	args := m.Called(ctx, actor)
	if v := args.Get(0); v != nil {
		return v.(*models.CourseForm), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) DiscardDraft(ctx context.Context, actor string) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAuthoringService) ValidateDraft(ctx context.Context, form *models.CourseForm) (*services.ValidationReport, error) {
	args := m.Called(ctx, form)
	if v := args.Get(0); v != nil {
		return v.(*services.ValidationReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) PublishDraft(ctx context.Context, actor string) (*models.Course, error) {
	args := m.Called(ctx, actor)
	if v := args.Get(0); v != nil {
		return v.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) TakeLastPublished(ctx context.Context, actor string) (uint, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockAuthoringService) LoadCourse(ctx context.Context, courseID uint) (*models.CourseForm, error) {
	args := m.Called(ctx, courseID)
	if v := args.Get(0); v != nil {
		return v.(*models.CourseForm), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) SyncCourse(ctx context.Context, actor string, courseID uint, form *models.CourseForm) (*services.SyncResult, error) {
	args := m.Called(ctx, actor, courseID, form)
	if v := args.Get(0); v != nil {
		return v.(*services.SyncResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) MoveModule(ctx context.Context, actor string, courseID, moduleID uint, direction string) ([]*models.Module, error) {
	args := m.Called(ctx, actor, courseID, moduleID, direction)
	if v := args.Get(0); v != nil {
		return v.([]*models.Module), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) MoveQuestion(ctx context.Context, actor string, courseID, moduleID, questionID uint, direction string) ([]*models.Question, error) {
	args := m.Called(ctx, actor, courseID, moduleID, questionID, direction)
	if v := args.Get(0); v != nil {
		return v.([]*models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) MoveOption(ctx context.Context, actor string, courseID, moduleID, questionID, optionID uint, direction string) ([]*models.Option, error) {
	args := m.Called(ctx, actor, courseID, moduleID, questionID, optionID, direction)
	if v := args.Get(0); v != nil {
		return v.([]*models.Option), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) DeleteModule(ctx context.Context, actor string, courseID, moduleID uint) ([]*models.Module, error) {
	args := m.Called(ctx, actor, courseID, moduleID)
	if v := args.Get(0); v != nil {
		return v.([]*models.Module), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) DeleteQuestion(ctx context.Context, actor string, courseID, moduleID, questionID uint) ([]*models.Question, error) {
	args := m.Called(ctx, actor, courseID, moduleID, questionID)
	if v := args.Get(0); v != nil {
		return v.([]*models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) DeleteOption(ctx context.Context, actor string, courseID, moduleID, questionID, optionID uint) ([]*models.Option, error) {
	args := m.Called(ctx, actor, courseID, moduleID, questionID, optionID)
	if v := args.Get(0); v != nil {
		return v.([]*models.Option), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthoringService) ListFailedSyncs(ctx context.Context, limit int) ([]*models.SyncCheckpoint, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]*models.SyncCheckpoint), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportDraft(ctx context.Context, actor string, reader io.Reader, filename string) (*models.ImportSummary, error) {
	args := m.Called(ctx, actor, filename)
	if v := args.Get(0); v != nil {
		return v.(*models.ImportSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImportExportService) ExportDraft(ctx context.Context, actor string) ([]byte, error) {
	args := m.Called(ctx, actor)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeTokenParser map[string]*casdoorsdk.Claims

func (f fakeTokenParser) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, errors.New("token signature is invalid")
}

// ===== FIXTURES =====

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerFixture struct {
	router       *gin.Engine
	authoring    *MockAuthoringService
	importExport *MockImportExportService
}

func newHandlerFixture(parser TokenParser) *handlerFixture {
	f := &handlerFixture{
		authoring:    new(MockAuthoringService),
		importExport: new(MockImportExportService),
	}
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.router = gin.New()
	NewHandlerManager(f.authoring, f.importExport, parser, logger).SetupRoutes(f.router)
	return f
}

func (f *handlerFixture) do(method, path string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if header == nil {
		header = http.Header{}
	}
	if header.Get(HeaderSessionID) == "" && header.Get("Authorization") == "" {
		header.Set(HeaderSessionID, "admin-1")
	}
	if header.Get("Content-Type") == "" && body != nil {
		header.Set("Content-Type", "application/json")
	}
	req.Header = header
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ===== TESTS =====

func TestHealth(t *testing.T) {
	f := newHandlerFixture(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "course-authoring-service")
}

func TestAdminMiddleware(t *testing.T) {
	t.Run("header mode requires session id", func(t *testing.T) {
		f := newHandlerFixture(nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.authoring.AssertNotCalled(t, "GetDraft", mock.Anything, mock.Anything)
	})

	parser := fakeTokenParser{
		"admin-token": {User: casdoorsdk.User{Owner: "acme", Name: "alice", IsAdmin: true}},
		"user-token":  {User: casdoorsdk.User{Owner: "acme", Name: "bob"}},
	}

	tests := []struct {
		name       string
		auth       string
		wantStatus int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer forged", http.StatusUnauthorized},
		{"not an admin", "Bearer user-token", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(parser)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("admin token is forwarded", func(t *testing.T) {
		f := newHandlerFixture(parser)
		forwarded := mock.MatchedBy(func(ctx context.Context) bool {
			return client.TokenFromContext(ctx) == "admin-token"
		})
		f.authoring.On("GetDraft", forwarded, "acme/alice").Return(&models.CourseForm{Title: "Draft"}, nil).Once()

		w := f.do(http.MethodGet, "/api/v1/drafts", nil, http.Header{"Authorization": {"Bearer admin-token"}})
		assert.Equal(t, http.StatusOK, w.Code)
		f.authoring.AssertExpectations(t)
	})
}

func TestAuthoringHandler_Drafts(t *testing.T) {
	t.Run("save", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("SaveDraft", mock.Anything, "admin-1", mock.MatchedBy(func(form *models.CourseForm) bool {
			return form.Title == "Go" && len(form.Modules) == 1
		})).Return(nil).Once()

		w := f.do(http.MethodPut, "/api/v1/drafts", strings.NewReader(`{"title":"Go","modules":[{"title":"Intro"}]}`), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		f.authoring.AssertExpectations(t)
	})

	t.Run("save rejects malformed json", func(t *testing.T) {
		f := newHandlerFixture(nil)
		w := f.do(http.MethodPut, "/api/v1/drafts", strings.NewReader(`{"title":`), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get missing draft", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("GetDraft", mock.Anything, "admin-1").Return(nil, services.ErrDraftNotFound).Once()

		w := f.do(http.MethodGet, "/api/v1/drafts", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("discard", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("DiscardDraft", mock.Anything, "admin-1").Return(nil).Once()

		w := f.do(http.MethodDelete, "/api/v1/drafts", nil, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("validate stored draft", func(t *testing.T) {
		f := newHandlerFixture(nil)
		stored := &models.CourseForm{Title: "Stored"}
		f.authoring.On("GetDraft", mock.Anything, "admin-1").Return(stored, nil).Once()
		f.authoring.On("ValidateDraft", mock.Anything, stored).Return(&services.ValidationReport{Valid: true}, nil).Once()

		w := f.do(http.MethodPost, "/api/v1/drafts/validate", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"valid":true`)
	})

	t.Run("validate body without content length", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("ValidateDraft", mock.Anything, mock.MatchedBy(func(form *models.CourseForm) bool {
			return form.Title == "Inline"
		})).Return(&services.ValidationReport{Valid: true}, nil).Once()

		// a plain io.Reader leaves ContentLength at -1, as with chunked uploads
		body := io.MultiReader(strings.NewReader(`{"title":"Inline"}`))
		w := f.do(http.MethodPost, "/api/v1/drafts/validate", body, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		f.authoring.AssertNotCalled(t, "GetDraft", mock.Anything, mock.Anything)
		f.authoring.AssertExpectations(t)
	})

	t.Run("validate empty streamed body uses stored draft", func(t *testing.T) {
		f := newHandlerFixture(nil)
		stored := &models.CourseForm{Title: "Stored"}
		f.authoring.On("GetDraft", mock.Anything, "admin-1").Return(stored, nil).Once()
		f.authoring.On("ValidateDraft", mock.Anything, stored).Return(&services.ValidationReport{Valid: true}, nil).Once()

		w := f.do(http.MethodPost, "/api/v1/drafts/validate", io.MultiReader(strings.NewReader("")), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		f.authoring.AssertExpectations(t)
	})

	t.Run("validate rejects malformed body", func(t *testing.T) {
		f := newHandlerFixture(nil)
		w := f.do(http.MethodPost, "/api/v1/drafts/validate", strings.NewReader(`{"title":`), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.authoring.AssertNotCalled(t, "ValidateDraft", mock.Anything, mock.Anything)
	})

	t.Run("last published is read once", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("TakeLastPublished", mock.Anything, "admin-1").Return(uint(42), nil).Once()
		f.authoring.On("TakeLastPublished", mock.Anything, "admin-1").Return(uint(0), services.ErrNotFound).Once()

		w := f.do(http.MethodGet, "/api/v1/drafts/last-published", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"course_id":42`)

		w = f.do(http.MethodGet, "/api/v1/drafts/last-published", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthoringHandler_PublishDraft(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("PublishDraft", mock.Anything, "admin-1").Return(&models.Course{ID: 42, Title: "Go"}, nil).Once()

		w := f.do(http.MethodPost, "/api/v1/drafts/publish", nil, nil)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":42`)
	})

	t.Run("validation errors grouped by module", func(t *testing.T) {
		f := newHandlerFixture(nil)
		errs := apperrors.ValidationErrors{
			*apperrors.NewKindError(apperrors.MissingField, "title", "Course title is required", ""),
		}
		errs = append(errs, apperrors.ValidationErrors{
			*apperrors.NewKindError(apperrors.NoCorrectAnswer, "options", "Question must have at least one correct option", nil),
		}.InModule(2)...)
		f.authoring.On("PublishDraft", mock.Anything, "admin-1").Return(nil, errs).Once()

		w := f.do(http.MethodPost, "/api/v1/drafts/publish", nil, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, "VALIDATION_FAILED", body["code"])
		details := body["details"].(map[string]interface{})
		assert.Len(t, details["course_errors"], 1)
		assert.Contains(t, details["module_errors"], "2")
		assert.Equal(t, []interface{}{float64(2)}, details["modules"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := newHandlerFixture(nil)
		err := errors.Join(services.ErrUpstreamFailure, &client.NetworkError{Op: "POST /courses", Err: errors.New("refused")})
		f.authoring.On("PublishDraft", mock.Anything, "admin-1").Return(nil, err).Once()

		w := f.do(http.MethodPost, "/api/v1/drafts/publish", nil, nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestAuthoringHandler_SyncCourse(t *testing.T) {
	t.Run("stopped sync reports step", func(t *testing.T) {
		f := newHandlerFixture(nil)
		cp := coursesync.NewCheckpoint(7)
		stepErr := &coursesync.StepError{
			Stage:      coursesync.StageQuiz,
			Path:       "module[1].quiz",
			ParentID:   11,
			Checkpoint: cp,
			Err:        &client.ServerError{Status: http.StatusInternalServerError, Message: "db down"},
		}
		f.authoring.On("SyncCourse", mock.Anything, "admin-1", uint(7), mock.Anything).Return(nil, stepErr).Once()

		w := f.do(http.MethodPut, "/api/v1/courses/7/sync", strings.NewReader(`{"title":"Go"}`), nil)
		require.Equal(t, http.StatusBadGateway, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, "SYNC_STOPPED", body["code"])
		details := body["details"].(map[string]interface{})
		assert.Equal(t, "Quiz", details["stage"])
		assert.Equal(t, "module[1].quiz", details["path"])
		assert.Equal(t, float64(11), details["parent_id"])
	})

	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("SyncCourse", mock.Anything, "admin-1", uint(7), mock.Anything).
			Return(&services.SyncResult{CourseID: 7, Steps: 4}, nil).Once()

		w := f.do(http.MethodPut, "/api/v1/courses/7/sync", strings.NewReader(`{"title":"Go"}`), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"steps":4`)
	})

	t.Run("bad id", func(t *testing.T) {
		f := newHandlerFixture(nil)
		w := f.do(http.MethodPut, "/api/v1/courses/abc/sync", strings.NewReader(`{}`), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthoringHandler_MoveModule(t *testing.T) {
	modules := []*models.Module{{ID: 2, Order: 1}, {ID: 1, Order: 2}}

	t.Run("moved", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("MoveModule", mock.Anything, "admin-1", uint(7), uint(2), "up").Return(modules, nil).Once()

		w := f.do(http.MethodPost, "/api/v1/courses/7/modules/2/move?direction=up", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("discarded returns server order", func(t *testing.T) {
		f := newHandlerFixture(nil)
		err := errors.Join(ordering.ErrReorderDiscarded, errors.New("second update failed"))
		f.authoring.On("MoveModule", mock.Anything, "admin-1", uint(7), uint(2), "up").Return(modules, err).Once()

		w := f.do(http.MethodPost, "/api/v1/courses/7/modules/2/move?direction=up", nil, nil)
		require.Equal(t, http.StatusConflict, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "REORDER_DISCARDED", body["code"])
		assert.Len(t, body["details"], 2)
	})

	t.Run("invalid direction", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("MoveModule", mock.Anything, "admin-1", uint(7), uint(2), "left").
			Return(nil, services.ErrInvalidDirection).Once()

		w := f.do(http.MethodPost, "/api/v1/courses/7/modules/2/move?direction=left", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthoringHandler_MoveQuestionAndOption(t *testing.T) {
	t.Run("question moved", func(t *testing.T) {
		f := newHandlerFixture(nil)
		questions := []*models.Question{{ID: 32, Order: 1}, {ID: 31, Order: 2}}
		f.authoring.On("MoveQuestion", mock.Anything, "admin-1", uint(7), uint(11), uint(31), "down").Return(questions, nil).Once()

		w := f.do(http.MethodPost, "/api/v1/courses/7/modules/11/questions/31/move?direction=down", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Question moved")
		f.authoring.AssertExpectations(t)
	})

	t.Run("option reorder discarded returns server order", func(t *testing.T) {
		f := newHandlerFixture(nil)
		options := []*models.Option{{ID: 41, Order: 1}, {ID: 42, Order: 1}}
		err := errors.Join(ordering.ErrReorderDiscarded, errors.New("second update failed"))
		f.authoring.On("MoveOption", mock.Anything, "admin-1", uint(7), uint(11), uint(31), uint(42), "up").Return(options, err).Once()

		w := f.do(http.MethodPost, "/api/v1/courses/7/modules/11/questions/31/options/42/move?direction=up", nil, nil)
		require.Equal(t, http.StatusConflict, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "REORDER_DISCARDED", body["code"])
		assert.Len(t, body["details"], 2)
	})

	t.Run("unknown question", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.authoring.On("MoveQuestion", mock.Anything, "admin-1", uint(7), uint(11), uint(99), "up").
			Return(nil, services.ErrQuestionNotFound).Once()

		w := f.do(http.MethodPost, "/api/v1/courses/7/modules/11/questions/99/move?direction=up", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad option id", func(t *testing.T) {
		f := newHandlerFixture(nil)
		w := f.do(http.MethodPost, "/api/v1/courses/7/modules/11/questions/31/options/x/move?direction=up", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.authoring.AssertNotCalled(t, "MoveOption", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthoringHandler_Delete(t *testing.T) {
	t.Run("module", func(t *testing.T) {
		f := newHandlerFixture(nil)
		remaining := []*models.Module{{ID: 2, Order: 1}, {ID: 3, Order: 2}}
		f.authoring.On("DeleteModule", mock.Anything, "admin-1", uint(7), uint(1)).Return(remaining, nil).Once()

		w := f.do(http.MethodDelete, "/api/v1/courses/7/modules/1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []*models.Module `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 2)
		assert.Equal(t, 1, body.Data[0].Order)
	})

	t.Run("question that would empty the quiz", func(t *testing.T) {
		f := newHandlerFixture(nil)
		errs := services.ValidationErrors{*apperrors.NewKindError(apperrors.EmptyQuiz, "quiz.questions", "Quiz must have at least one question", 0)}.InModule(0)
		f.authoring.On("DeleteQuestion", mock.Anything, "admin-1", uint(7), uint(11), uint(31)).Return(nil, errs).Once()

		w := f.do(http.MethodDelete, "/api/v1/courses/7/modules/11/questions/31", nil, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, w)["code"])
	})

	t.Run("option", func(t *testing.T) {
		f := newHandlerFixture(nil)
		remaining := []*models.Option{{ID: 41, Order: 1}, {ID: 43, Order: 2}}
		f.authoring.On("DeleteOption", mock.Anything, "admin-1", uint(7), uint(11), uint(31), uint(42)).Return(remaining, nil).Once()

		w := f.do(http.MethodDelete, "/api/v1/courses/7/modules/11/questions/31/options/42", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Option deleted")
	})

	t.Run("renumber discarded", func(t *testing.T) {
		f := newHandlerFixture(nil)
		server := []*models.Module{{ID: 1, Order: 1}, {ID: 3, Order: 3}}
		f.authoring.On("DeleteModule", mock.Anything, "admin-1", uint(7), uint(2)).
			Return(server, fmt.Errorf("%w: item 3: timeout", ordering.ErrReorderDiscarded)).Once()

		w := f.do(http.MethodDelete, "/api/v1/courses/7/modules/2", nil, nil)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Len(t, decodeError(t, w)["details"], 2)
	})
}

func TestAuthoringHandler_ImportExport(t *testing.T) {
	t.Run("import", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.importExport.On("ImportDraft", mock.Anything, "admin-1", "course.xlsx").
			Return(&models.ImportSummary{Status: models.ImportCompleted, ModuleCount: 2}, nil).Once()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "course.xlsx")
		require.NoError(t, err)
		_, err = part.Write([]byte("workbook bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		w := f.do(http.MethodPost, "/api/v1/drafts/import", &buf, http.Header{
			"Content-Type": {mw.FormDataContentType()},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"module_count":2`)
	})

	t.Run("import without file", func(t *testing.T) {
		f := newHandlerFixture(nil)
		w := f.do(http.MethodPost, "/api/v1/drafts/import", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("export", func(t *testing.T) {
		f := newHandlerFixture(nil)
		f.importExport.On("ExportDraft", mock.Anything, "admin-1").Return([]byte("xlsx"), nil).Once()

		w := f.do(http.MethodGet, "/api/v1/drafts/export", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "course-draft.xlsx")
		assert.Equal(t, "xlsx", w.Body.String())
	})
}

func TestAuthoringHandler_ListFailedSyncs(t *testing.T) {
	f := newHandlerFixture(nil)
	f.authoring.On("ListFailedSyncs", mock.Anything, 10).
		Return([]*models.SyncCheckpoint{{Key: "course:7", CourseID: 7, Failed: true}}, nil).Once()

	w := f.do(http.MethodGet, "/api/v1/syncs/failed?limit=10", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "course:7")
}

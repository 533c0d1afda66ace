package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

func apiServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestGetCourse(t *testing.T) {
	t.Run("decodes a course record", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/courses/abc123", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"_id":         "abc123",
				"title":       "Go for Web Developers",
				"description": "Build servers.",
				"instructor":  map[string]any{"name": "Ada", "email": "ada@example.com"},
				"category":    "Programming",
				"price":       49.99,
				"level":       "Beginner",
				"objectives":  []string{"HTTP basics"},
				"curriculum":  map[string]any{"sections": 4, "lectures": 32, "totalDuration": "12h"},
			})
		})

		course, err := c.GetCourse(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", course.ID)
		assert.Equal(t, "Go for Web Developers", course.Title)
		assert.Equal(t, "Ada", course.Instructor.Name)
		assert.Equal(t, 49.99, course.Price)
		require.NotNil(t, course.Curriculum)
		assert.Equal(t, 32, course.Curriculum.Lectures)
	})

	t.Run("missing course is a not-found error", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := c.GetCourse(context.Background(), "nope")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("server failure is a network error", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := c.GetCourse(context.Background(), "abc123")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNetwork))
	})
}

func TestCreateCourse(t *testing.T) {
	t.Run("returns the api-assigned id and never sends one", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/courses", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, hasID := body["_id"]
			assert.False(t, hasID)

			_ = json.NewEncoder(w).Encode(map[string]any{"insertedId": "new-id-1"})
		})

		id, err := c.CreateCourse(context.Background(), Course{
			ID:          "client-made-up",
			Title:       "T",
			Description: "D",
			Category:    "C",
			Price:       10,
		})
		require.NoError(t, err)
		assert.Equal(t, "new-id-1", id)
	})
}

func TestUpdateCourse(t *testing.T) {
	c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/courses/abc123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"matchedCount": 1, "modifiedCount": 0})
	})

	res, err := c.UpdateCourse(context.Background(), "abc123", map[string]any{"title": "Same"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.MatchedCount)
	assert.Equal(t, 0, res.ModifiedCount)
}

func TestCreateEnrollment(t *testing.T) {
	t.Run("returns the enrollment id", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/enrolled-courses", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"insertedId": "enr-1"})
		})
		id, err := c.CreateEnrollment(context.Background(), Enrollment{
			CourseID: "abc123",
			UserID:   "u1",
			Title:    "T",
		})
		require.NoError(t, err)
		assert.Equal(t, "enr-1", id)
	})

	t.Run("duplicate enrollment surfaces as a duplicate error with the api message", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "You have already enrolled for this course"})
		})
		_, err := c.CreateEnrollment(context.Background(), Enrollment{CourseID: "abc123", UserID: "u1"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicate))
		assert.Equal(t, "You have already enrolled for this course", err.Error())
	})
}

func TestListEnrollments(t *testing.T) {
	t.Run("queries by userId", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "u1", r.URL.Query().Get("userId"))
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"_id": "enr-1", "courseId": "abc123", "userId": "u1", "title": "T"},
			})
		})
		enrollments, err := c.ListEnrollments(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, enrollments, 1)
		assert.Equal(t, "abc123", enrollments[0].CourseID)
	})

	t.Run("narrows by course for the detail page", func(t *testing.T) {
		c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "u1", r.URL.Query().Get("userId"))
			assert.Equal(t, "abc123", r.URL.Query().Get("courseId"))
			_ = json.NewEncoder(w).Encode([]map[string]any{})
		})
		enrollments, err := c.ListEnrollmentsByCourse(context.Background(), "u1", "abc123")
		require.NoError(t, err)
		assert.Empty(t, enrollments)
	})
}

func TestDeleteEnrollment(t *testing.T) {
	var gotPath string
	c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{"deletedCount": 1})
	})
	require.NoError(t, c.DeleteEnrollment(context.Background(), "enr-1"))
	assert.Equal(t, "/enrolled-courses/enr-1", gotPath)
}

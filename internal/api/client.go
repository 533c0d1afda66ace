// Package api is the data-access layer: thin, stateless HTTP calls to the
// external course/enrollment API. It performs no retries and no caching;
// every call is independent, and idempotency of creates is the API's problem.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rashel9255/online-learning-platform-client/internal/platform/metrics"
	dErrors "github.com/rashel9255/online-learning-platform-client/pkg/domainerrors"
)

// Client calls the external course API. The base URL is the only
// configuration point.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tracer:  otel.Tracer("pathshala/api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// ListCourses fetches the full catalog.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.do(ctx, "list_courses", http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// PopularCourses fetches the curated popular set for the home page.
func (c *Client) PopularCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.do(ctx, "popular_courses", http.MethodGet, "/courses/popular-courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse fetches one course by its API-assigned id.
func (c *Client) GetCourse(ctx context.Context, id string) (*Course, error) {
	var course Course
	if err := c.do(ctx, "get_course", http.MethodGet, "/courses/"+url.PathEscape(id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCoursesByOwner fetches the courses authored by the given instructor
// email. The path shape is fixed by the external API.
func (c *Client) ListCoursesByOwner(ctx context.Context, email string) ([]Course, error) {
	var courses []Course
	if err := c.do(ctx, "courses_by_owner", http.MethodGet, "/courses/user/"+url.PathEscape(email), nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateCourse submits a new course record and returns its assigned id.
func (c *Client) CreateCourse(ctx context.Context, course Course) (string, error) {
	course.ID = "" // ids are minted by the API
	var res insertResponse
	if err := c.do(ctx, "create_course", http.MethodPost, "/courses", course, &res); err != nil {
		return "", err
	}
	if res.InsertedID == "" {
		return "", dErrors.New(dErrors.CodeNetwork, "create course: no inserted id in response")
	}
	return res.InsertedID, nil
}

// UpdateCourse patches a course and reports what the API matched/modified.
func (c *Client) UpdateCourse(ctx context.Context, id string, patch map[string]any) (*UpdateResult, error) {
	var res UpdateResult
	if err := c.do(ctx, "update_course", http.MethodPatch, "/courses/"+url.PathEscape(id), patch, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteCourse removes a course by id.
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, "delete_course", http.MethodDelete, "/courses/"+url.PathEscape(id), nil, nil)
}

// TopInstructors fetches the highlighted instructors for the home page.
func (c *Client) TopInstructors(ctx context.Context) ([]Instructor, error) {
	var instructors []Instructor
	if err := c.do(ctx, "top_instructors", http.MethodGet, "/instructors/top", nil, &instructors); err != nil {
		return nil, err
	}
	return instructors, nil
}

// CreateEnrollment submits an enrollment. The API enforces at most one
// enrollment per (user, course); a duplicate comes back as a message, which
// surfaces here as a duplicate-kind error that callers treat as
// success-adjacent, not fatal.
func (c *Client) CreateEnrollment(ctx context.Context, enrollment Enrollment) (string, error) {
	enrollment.ID = ""
	if c.metrics != nil {
		c.metrics.EnrollmentsSubmitted.Inc()
	}
	var res insertResponse
	if err := c.do(ctx, "create_enrollment", http.MethodPost, "/enrolled-courses", enrollment, &res); err != nil {
		return "", err
	}
	if res.InsertedID == "" {
		return "", dErrors.New(dErrors.CodeDuplicate, res.Message)
	}
	return res.InsertedID, nil
}

// ListEnrollments fetches the enrollments of one user. userId is the
// canonical query key for enrollment listings.
func (c *Client) ListEnrollments(ctx context.Context, userID string) ([]Enrollment, error) {
	var enrollments []Enrollment
	path := "/enrolled-courses?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, "list_enrollments", http.MethodGet, path, nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// ListEnrollmentsByCourse narrows a user's enrollments to one course,
// used by the detail page to render the already-enrolled state.
func (c *Client) ListEnrollmentsByCourse(ctx context.Context, userID, courseID string) ([]Enrollment, error) {
	var enrollments []Enrollment
	path := "/enrolled-courses?userId=" + url.QueryEscape(userID) + "&courseId=" + url.QueryEscape(courseID)
	if err := c.do(ctx, "list_enrollments_by_course", http.MethodGet, path, nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// DeleteEnrollment removes an enrollment record.
func (c *Client) DeleteEnrollment(ctx context.Context, id string) error {
	return c.do(ctx, "delete_enrollment", http.MethodDelete, "/enrolled-courses/"+url.PathEscape(id), nil, nil)
}

// do runs one request/response cycle. Network failures and non-2xx statuses
// collapse into a single typed error for the calling view.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	start := time.Now()
	err := c.roundTrip(ctx, method, path, body, out)
	if c.metrics != nil {
		c.metrics.UpstreamLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		if err != nil && !dErrors.HasCode(err, dErrors.CodeDuplicate) {
			c.metrics.UpstreamErrors.WithLabelValues(operation).Inc()
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "course api unreachable",
			"method", method,
			"path", path,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeNetwork, "course api unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "course api error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return dErrors.New(dErrors.CodeNetwork, fmt.Sprintf("course api returned status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeNetwork, "decode response body")
	}
	return nil
}

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shamian84/college-appointment-system/pkg/model"
)

// APIError is a non-success response decoded from the API's error body.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

type Page[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// AppointmentsClient is a typed client for the appointments API.
type AppointmentsClient struct {
	http *HttpClient
}

func NewAppointmentsClient(baseURL string) *AppointmentsClient {
	return &AppointmentsClient{http: NewHttpClient(baseURL)}
}

// As returns a client that authenticates with accessToken.
func (c *AppointmentsClient) As(accessToken string) *AppointmentsClient {
	return &AppointmentsClient{http: c.http.WithToken(accessToken)}
}

func (c *AppointmentsClient) WaitForHealthy(ctx context.Context) error {
	return c.http.WaitForHealthy(ctx, 30*time.Second)
}

func (c *AppointmentsClient) Register(ctx context.Context, req model.RegisterRequest) (*model.UserSummary, error) {
	resp, err := c.http.POST(ctx, "/auth/register", req)
	return decode[model.UserSummary](resp, err, http.StatusCreated)
}

func (c *AppointmentsClient) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	resp, err := c.http.POST(ctx, "/auth/login", req)
	return decode[model.LoginResponse](resp, err, http.StatusOK)
}

func (c *AppointmentsClient) Refresh(ctx context.Context, refreshToken string) (*model.RefreshResponse, error) {
	resp, err := c.http.POST(ctx, "/auth/refresh", model.RefreshRequest{RefreshToken: refreshToken})
	return decode[model.RefreshResponse](resp, err, http.StatusOK)
}

func (c *AppointmentsClient) ListProfessors(ctx context.Context, page, limit int) (*Page[model.UserSummary], error) {
	return decodePage[model.UserSummary](c.http.GET(ctx, "/professor"+pageQuery(nil, page, limit)))
}

func (c *AppointmentsClient) PublishAvailability(ctx context.Context, req model.PublishAvailabilityRequest) (*model.Availability, error) {
	resp, err := c.http.POST(ctx, "/professor/availability", req)
	return decode[model.Availability](resp, err, http.StatusCreated)
}

func (c *AppointmentsClient) ProfessorAvailability(ctx context.Context, professorID, date string) ([]model.Availability, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	resp, err := c.http.GET(ctx, "/professor/"+url.PathEscape(professorID)+"/availability"+encode(q))
	out, err := decode[[]model.Availability](resp, err, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *AppointmentsClient) AllAvailability(ctx context.Context, date string, page, limit int) (*Page[model.Availability], error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	return decodePage[model.Availability](c.http.GET(ctx, "/professor/availability/all"+pageQuery(q, page, limit)))
}

func (c *AppointmentsClient) Book(ctx context.Context, professorID string, req model.BookRequest) (*model.AppointmentView, error) {
	resp, err := c.http.POST(ctx, "/student/book/"+url.PathEscape(professorID), req)
	return decode[model.AppointmentView](resp, err, http.StatusCreated)
}

func (c *AppointmentsClient) StudentBookings(ctx context.Context) (*model.StudentBookingsResponse, error) {
	resp, err := c.http.GET(ctx, "/student/bookings")
	return decode[model.StudentBookingsResponse](resp, err, http.StatusOK)
}

func (c *AppointmentsClient) CancelBooking(ctx context.Context, appointmentID string) (*model.AppointmentView, error) {
	resp, err := c.http.PATCH(ctx, "/student/bookings/"+url.PathEscape(appointmentID)+"/cancel", nil)
	return decode[model.AppointmentView](resp, err, http.StatusOK)
}

func (c *AppointmentsClient) ProfessorAppointments(ctx context.Context, date, status string, page, limit int) (*Page[model.AppointmentView], error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if status != "" {
		q.Set("status", status)
	}
	return decodePage[model.AppointmentView](c.http.GET(ctx, "/professor/appointments"+pageQuery(q, page, limit)))
}

func (c *AppointmentsClient) CancelAppointment(ctx context.Context, appointmentID, reason string) (*model.AppointmentView, error) {
	var body any
	if reason != "" {
		body = model.CancelRequest{Reason: reason}
	}
	resp, err := c.http.PATCH(ctx, "/professor/appointments/"+url.PathEscape(appointmentID)+"/cancel", body)
	return decode[model.AppointmentView](resp, err, http.StatusOK)
}

func (c *AppointmentsClient) CompleteAppointment(ctx context.Context, appointmentID string) (*model.AppointmentView, error) {
	resp, err := c.http.PATCH(ctx, "/professor/appointments/"+url.PathEscape(appointmentID)+"/complete", nil)
	return decode[model.AppointmentView](resp, err, http.StatusOK)
}

// decode checks the status and unwraps the data envelope.
func decode[T any](resp *Response, err error, status int) (*T, error) {
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != status {
		return nil, apiError(resp)
	}
	var out T
	if err := resp.DecodeData(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func decodePage[T any](resp *Response, err error) (*Page[T], error) {
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	var out Page[T]
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func apiError(resp *Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := resp.DecodeJSON(apiErr); err != nil {
		apiErr.Message = string(resp.Body)
	}
	return apiErr
}

func pageQuery(q url.Values, page, limit int) string {
	if q == nil {
		q = url.Values{}
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return encode(q)
}

func encode(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

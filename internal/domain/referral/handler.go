package referral

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kosofe-health/referral/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the JSON API under api and the two role views on the
// root group.
func (h *Handler) RegisterRoutes(api *echo.Group, views *echo.Group) {
	api.POST("/referrals", h.SubmitReferral)
	api.GET("/referrals", h.ListReferrals)
	api.GET("/referrals/dashboard", h.GetDashboard)
	api.POST("/referrals/:id/acknowledge", h.AcknowledgeReferral)

	views.GET("/", h.RoleSelectPage)
	views.GET("/refer", h.ReferPage)
	views.POST("/refer", h.ReferSubmit)
	views.GET("/dashboard", h.DashboardPage)
	views.POST("/dashboard/acknowledge", h.DashboardAcknowledge)
}

// -- JSON API --

func (h *Handler) SubmitReferral(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) ListReferrals(c echo.Context) error {
	pg := pagination.FromContext(c)

	records, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	total := len(records)
	start := pg.Offset
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records[start:end], total, pg.Limit, pg.Offset))
}

func (h *Handler) GetDashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) AcknowledgeReferral(c echo.Context) error {
	var req AckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ID = c.Param("id")
	if err := h.svc.Acknowledge(c.Request().Context(), req); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"referral_id": req.ID,
		"status":      "acknowledged",
	})
}

// httpError maps the domain taxonomy onto HTTP statuses.
func httpError(err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "validation failed",
			"missing": verr.Missing,
		})
	case errors.Is(err, ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyAcknowledged):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrStoreWrite), errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrStoreAuth):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// -- HTML role views --

// referPageData feeds the PHC submission form template.
type referPageData struct {
	Genders   []string
	Form      SubmitRequest
	Missing   map[string]bool
	Submitted *Referral
	Err       string
}

// dashboardPageData feeds the hospital dashboard template.
type dashboardPageData struct {
	Pending      []*Referral
	Completed    []*Referral
	Acknowledged string
	Err          string
	Missing      map[string]bool
}

func (h *Handler) RoleSelectPage(c echo.Context) error {
	return c.Render(http.StatusOK, "roles.html", nil)
}

func (h *Handler) ReferPage(c echo.Context) error {
	return c.Render(http.StatusOK, "refer.html", referPageData{Genders: GenderOptions})
}

func (h *Handler) ReferSubmit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data := referPageData{Genders: GenderOptions, Form: req}
	r, err := h.svc.Submit(c.Request().Context(), req)
	switch {
	case err == nil:
		data.Submitted = r
		data.Form = SubmitRequest{} // clear the form on success
		return c.Render(http.StatusOK, "refer.html", data)
	default:
		var verr *ValidationError
		if errors.As(err, &verr) {
			data.Missing = missingSet(verr.Missing)
			return c.Render(http.StatusUnprocessableEntity, "refer.html", data)
		}
		data.Err = err.Error()
		return c.Render(http.StatusBadGateway, "refer.html", data)
	}
}

func (h *Handler) DashboardPage(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, "dashboard.html", dashboardPageData{
		Pending:   d.Pending,
		Completed: d.Completed,
	})
}

func (h *Handler) DashboardAcknowledge(c echo.Context) error {
	var req AckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ackErr := h.svc.Acknowledge(c.Request().Context(), req)

	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	data := dashboardPageData{Pending: d.Pending, Completed: d.Completed}

	switch {
	case ackErr == nil:
		data.Acknowledged = req.ID
		return c.Render(http.StatusOK, "dashboard.html", data)
	default:
		var verr *ValidationError
		if errors.As(ackErr, &verr) {
			data.Missing = missingSet(verr.Missing)
			return c.Render(http.StatusUnprocessableEntity, "dashboard.html", data)
		}
		data.Err = ackErr.Error()
		status := http.StatusBadGateway
		if errors.Is(ackErr, ErrRecordNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(ackErr, ErrAlreadyAcknowledged) {
			status = http.StatusConflict
		}
		return c.Render(status, "dashboard.html", data)
	}
}

func missingSet(fields []string) map[string]bool {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shiftdesk/shiftdesk/internal/app/finance"
	"github.com/shiftdesk/shiftdesk/internal/app/groups"
	"github.com/shiftdesk/shiftdesk/internal/app/ledger"
	"github.com/shiftdesk/shiftdesk/internal/app/period"
	"github.com/shiftdesk/shiftdesk/internal/domain"
)

// ─── Wire Types ─────────────────────────────────────────────────────────────
// Money crosses the wire as plain JSON numbers; the exact decimal stays
// internal.

type financialResponse struct {
	Allowance  float64 `json:"allowance"`
	Commission float64 `json:"commission"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
}

func toFinancialResponse(s domain.FinancialSummary) financialResponse {
	return financialResponse{
		Allowance:  s.Allowance.InexactFloat64(),
		Commission: s.Commission.InexactFloat64(),
		Spent:      s.Spent.InexactFloat64(),
		Remaining:  s.Remaining.InexactFloat64(),
	}
}

type userResponse struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	Rank       int     `json:"rank"`
	Commission float64 `json:"commission"`
	Spent      float64 `json:"spent"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		UserID:     u.ID,
		Name:       u.Name,
		Rank:       u.Rank,
		Commission: u.Commission.InexactFloat64(),
		Spent:      u.Spent.InexactFloat64(),
	}
}

type groupResponse struct {
	Order             int      `json:"order"`
	Label             string   `json:"label"`
	AvailableTasks    int      `json:"availableTasks"`
	TicketCost        float64  `json:"ticketCost"`
	DailyAllocation   float64  `json:"dailyAllocation"`
	MonthlyAllocation float64  `json:"monthlyAllocation"`
	Periods           []string `json:"periods"`
}

type taskResponse struct {
	ID       string  `json:"id"`
	Board    string  `json:"board"`
	Stock    string  `json:"stock"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Extra    string  `json:"extra"`
	Cost     float64 `json:"cost"`
}

type periodResponse struct {
	RangeLabel       string `json:"currentPeriod"`
	Number           string `json:"currentPeriodNumber"`
	SecondsRemaining int    `json:"timeRemaining"`
	TotalPeriods     int    `json:"periodsPerDay"`
}

func toPeriodResponse(p domain.PeriodInfo) periodResponse {
	return periodResponse{
		RangeLabel:       p.RangeLabel,
		Number:           p.Number,
		SecondsRemaining: p.SecondsRemaining,
		TotalPeriods:     p.TotalPeriods,
	}
}

// flexInt accepts both JSON numbers and numeric strings; older frontends
// send the period as "1".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*f = flexInt(n)
	return nil
}

// ─── Handlers ───────────────────────────────────────────────────────────────

// handleLogin checks the user's id/PIN pair.
// POST /api/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		PIN    string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.UserID == "" || req.PIN == "" {
		writeError(w, http.StatusBadRequest, "userId and pin are required")
		return
	}

	snap, err := s.snapshots.GetOrRefresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	user := snap.UserByID(req.UserID)
	if user == nil || user.PIN != req.PIN {
		writeDomainError(w, domain.ErrInvalidCredentials)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"userId":  user.ID,
		"name":    user.Name,
	})
}

// handleListUsers returns all users, PINs excluded.
// GET /api/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.GetOrRefresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	users := make([]userResponse, 0, len(snap.Users))
	for _, u := range snap.Users {
		users = append(users, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// handleUserSummary returns the user's financial summary, active task groups,
// and current period.
// GET /api/users/{id}/summary
func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := s.snapshots.GetOrRefresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	user := snap.UserByID(id)
	if user == nil {
		writeDomainError(w, fmt.Errorf("user %q: %w", id, domain.ErrUserNotFound))
		return
	}

	active := groups.Active(*user, snap.Groups)
	summary := finance.Summarize(*user, active)
	info := period.Resolve(period.SortedBoundaries(active), s.fallbackPeriods, s.now())

	groupViews := make([]groupResponse, 0, len(active))
	for _, g := range active {
		groupViews = append(groupViews, groupResponse{
			Order:             g.Order,
			Label:             g.Label,
			AvailableTasks:    g.AvailableTasks,
			TicketCost:        g.TicketCost.InexactFloat64(),
			DailyAllocation:   g.DailyAllocation.InexactFloat64(),
			MonthlyAllocation: g.MonthlyAllocation.InexactFloat64(),
			Periods:           g.Periods,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"user":             toUserResponse(*user),
		"financial":        toFinancialResponse(summary),
		"activeTaskGroups": groupViews,
		"period":           toPeriodResponse(info),
	})
}

// handlePeriods returns the user's sorted boundary list and the
// authoritative current-period computation for countdown rendering.
// GET /api/periods?userId=
func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	snap, err := s.snapshots.GetOrRefresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// An unknown user falls back to the global list rather than failing;
	// period display must degrade, not break the dashboard.
	var boundaries []string
	if user := snap.UserByID(userID); user != nil {
		boundaries = period.SortedBoundaries(groups.Active(*user, snap.Groups))
	}
	if len(boundaries) == 0 {
		boundaries = s.fallbackPeriods
	}
	if boundaries == nil {
		boundaries = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"periods": boundaries,
		"current": toPeriodResponse(period.Compute(boundaries, s.now())),
	})
}

// handleTasks returns the catalog with each task's category resolved for the
// requested period.
// GET /api/tasks?period=
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	periodNum := 0
	if raw := r.URL.Query().Get("period"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "period must be a number")
			return
		}
		periodNum = n
	}

	snap, err := s.snapshots.GetOrRefresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	tasks := make([]taskResponse, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		c := t.CategoryForPeriod(periodNum)
		tasks = append(tasks, taskResponse{
			ID:       t.ID,
			Board:    t.Board,
			Stock:    c.Name,
			Type:     c.Type,
			Price:    c.Price.InexactFloat64(),
			Quantity: c.Quantity,
			Extra:    c.Extra,
			Cost:     c.Cost.InexactFloat64(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tasks":   tasks,
	})
}

// handleAcknowledge runs the acknowledgment transaction and returns the
// refreshed financial summary.
// POST /api/acknowledge
func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string  `json:"userId"`
		TaskID    string  `json:"taskId"`
		Period    flexInt `json:"period"`
		Quantity  flexInt `json:"quantity"`
		RequestID string  `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	summary, err := s.ledger.Acknowledge(r.Context(), ledger.Request{
		UserID:    req.UserID,
		TaskID:    req.TaskID,
		Period:    int(req.Period),
		Quantity:  int(req.Quantity),
		RequestID: req.RequestID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"financial": toFinancialResponse(*summary),
	})
}

// handleUpdateProfile rewrites the user's display name and/or PIN.
// POST /api/profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
		PIN    string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Name == "" && req.PIN == "" {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := s.store.UpdateProfile(r.Context(), req.UserID, req.Name, req.PIN); err != nil {
		writeDomainError(w, err)
		return
	}
	s.snapshots.Invalidate()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Package sheets imports the five logical tables from a published
// spreadsheet. Each table is fetched as CSV over HTTP and normalized from
// the sheet's heterogeneous row shapes into typed records; `shiftdesk
// import` then seeds the sqlite store with the result.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftdesk/shiftdesk/internal/domain"
	"github.com/shiftdesk/shiftdesk/internal/infra/observability"
)

// Sources holds the published CSV URL for each logical table.
type Sources struct {
	Users      string
	TaskGroups string
	Tasks      string
	Payscale   string
}

// Client fetches and normalizes sheet tables.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with a bounded request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// ─── Fetchers ───────────────────────────────────────────────────────────────

// FetchUsers downloads and normalizes the users table.
func (c *Client) FetchUsers(ctx context.Context, url string) ([]domain.User, error) {
	rows, err := c.fetchCSV(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("users sheet: %w", err)
	}
	users := ParseUsers(rows)
	observability.SheetRowsImported.WithLabelValues("users").Add(float64(len(users)))
	return users, nil
}

// FetchTaskGroups downloads and normalizes the budget table.
func (c *Client) FetchTaskGroups(ctx context.Context, url string) ([]domain.TaskGroup, error) {
	rows, err := c.fetchCSV(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("task groups sheet: %w", err)
	}
	groups := ParseTaskGroups(rows)
	observability.SheetRowsImported.WithLabelValues("task_groups").Add(float64(len(groups)))
	return groups, nil
}

// FetchTasks downloads and normalizes the task catalog.
func (c *Client) FetchTasks(ctx context.Context, url string) ([]domain.Task, error) {
	rows, err := c.fetchCSV(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("tasks sheet: %w", err)
	}
	tasks := ParseTasks(rows)
	observability.SheetRowsImported.WithLabelValues("tasks").Add(float64(len(tasks)))
	return tasks, nil
}

// FetchPayscale downloads and normalizes the payscale table.
func (c *Client) FetchPayscale(ctx context.Context, url string) ([]domain.PayscaleEntry, error) {
	rows, err := c.fetchCSV(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("payscale sheet: %w", err)
	}
	entries := ParsePayscale(rows)
	observability.SheetRowsImported.WithLabelValues("payscale").Add(float64(len(entries)))
	return entries, nil
}

// fetchCSV downloads a published CSV and returns header-keyed rows.
// Header names are lowercased and trimmed so sheet cosmetics don't matter.
func (c *Client) fetchCSV(ctx context.Context, url string) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}
	return parseCSV(resp.Body)
}

func parseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // sheets pad or truncate trailing cells

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, cell := range record {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ─── Normalizers ────────────────────────────────────────────────────────────

// ParseUsers maps sheet rows to user records. Rows without an id are dropped.
func ParseUsers(rows []map[string]string) []domain.User {
	var users []domain.User
	for _, row := range rows {
		id := pick(row, "id", "user_id")
		if id == "" {
			continue
		}
		u := domain.User{
			ID:         id,
			Name:       pick(row, "name", "first name", "first_name"),
			PIN:        pick(row, "pin"),
			Rank:       atoi(pick(row, "rank", "rating")),
			Commission: money(pick(row, "commission", "credit")),
			Spent:      money(pick(row, "spent", "debit")),
		}
		for i := 0; i < domain.MaxTaskGroups; i++ {
			u.Flags[i] = truthy(row[fmt.Sprintf("flag_%d", i)])
		}
		users = append(users, u)
	}
	return users
}

// ParseTaskGroups maps budget rows to task groups. A missing order column
// falls back to the row's sheet position.
func ParseTaskGroups(rows []map[string]string) []domain.TaskGroup {
	var groups []domain.TaskGroup
	for i, row := range rows {
		order := i
		if s := pick(row, "order", "ord"); s != "" {
			order = atoi(s)
		}
		g := domain.TaskGroup{
			Order:             order,
			Label:             pick(row, "label", "name"),
			AvailableTasks:    atoi(pick(row, "available_tasks", "tasks")),
			TicketCost:        money(pick(row, "ticket_cost")),
			DailyAllocation:   money(pick(row, "daily_allocation", "daily")),
			MonthlyAllocation: money(pick(row, "monthly_allocation", "monthly")),
		}
		for n := 1; n <= 4; n++ {
			g.Periods = append(g.Periods, row[fmt.Sprintf("period_%d", n)])
		}
		groups = append(groups, g)
	}
	return groups
}

// categoryKeys lists the four category column prefixes of the later schema.
var categoryKeys = []domain.CategoryKey{
	domain.CategoryStock,
	domain.CategoryAirline,
	domain.CategoryHouse,
	domain.CategoryCars,
}

// ParseTasks maps catalog rows to tasks. Rows in the later schema carry four
// prefixed category column sets (stock_name, airline_name, ...); legacy flat
// rows carry a single unprefixed set and import as the stock category.
func ParseTasks(rows []map[string]string) []domain.Task {
	var tasks []domain.Task
	for i, row := range rows {
		id := pick(row, "id", "task_id")
		if id == "" {
			id = strconv.Itoa(i)
		}
		t := domain.Task{
			ID:         id,
			Board:      pick(row, "board", "tasklabel"),
			Categories: make(map[domain.CategoryKey]domain.TaskCategory),
		}

		if _, structured := row["stock_name"]; structured {
			for _, key := range categoryKeys {
				prefix := string(key) + "_"
				t.Categories[key] = domain.TaskCategory{
					Name:     row[prefix+"name"],
					Type:     row[prefix+"type"],
					Price:    money(row[prefix+"price"]),
					Quantity: atoi(row[prefix+"quantity"]),
					Extra:    row[prefix+"extra"],
					Cost:     money(row[prefix+"cost"]),
				}
			}
		} else {
			t.Categories[domain.CategoryStock] = domain.TaskCategory{
				Name:     pick(row, "stock", "name"),
				Type:     row["type"],
				Price:    money(row["price"]),
				Quantity: atoi(row["quantity"]),
				Extra:    row["extra"],
				Cost:     money(pick(row, "cost", "totalprice")),
			}
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// ParsePayscale maps payscale rows to entries. Rows without a rank are dropped.
func ParsePayscale(rows []map[string]string) []domain.PayscaleEntry {
	var entries []domain.PayscaleEntry
	for _, row := range rows {
		rank := pick(row, "rank", "rating")
		if rank == "" {
			continue
		}
		entries = append(entries, domain.PayscaleEntry{
			Rank: atoi(rank),
			Rate: money(pick(row, "rate", "commission")),
		})
	}
	return entries
}

// ─── Cell Helpers ───────────────────────────────────────────────────────────

// pick returns the first non-empty cell among the candidate column names.
func pick(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// money parses a sheet money cell, tolerating "$" and thousands separators.
// Blank or corrupt cells degrade to zero.
func money(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// truthy interprets the sheet's assorted flag spellings.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "x":
		return true
	}
	return false
}

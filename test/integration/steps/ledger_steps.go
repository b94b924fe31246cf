package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/integration/persistence/model"
)

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(t.url + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Seeding steps. Each table row maps column headers to values; dates are
// YYYY-MM-DD and amounts decimal strings.

func (t *testContext) theFollowingCategoriesExist(table *godog.Table) error {
	for _, row := range tableRows(table) {
		active := true
		if raw, ok := row["is_active"]; ok {
			active = raw == "true"
		}
		order := 0
		if raw, ok := row["display_order"]; ok {
			order, _ = strconv.Atoi(raw)
		}
		m := &model.CategoryModel{
			Name:         row["name"],
			DisplayOrder: order,
			IsActive:     active,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := t.db.DbConn.Create(m).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", row["name"], err)
		}
	}
	return nil
}

func (t *testContext) theFollowingIncomeEntriesExist(table *godog.Table) error {
	for _, row := range tableRows(table) {
		date, amount, err := parseEntryRow(row)
		if err != nil {
			return err
		}
		m := &model.IncomeModel{
			Date:        date,
			Amount:      amount,
			Description: row["description"],
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		if err := t.db.DbConn.Create(m).Error; err != nil {
			return fmt.Errorf("failed to seed income entry: %w", err)
		}
	}
	return nil
}

func (t *testContext) theFollowingSpendingEntriesExist(table *godog.Table) error {
	for _, row := range tableRows(table) {
		date, amount, err := parseEntryRow(row)
		if err != nil {
			return err
		}
		categoryID, err := strconv.ParseInt(row["category_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category_id %q", row["category_id"])
		}
		m := &model.SpendingModel{
			Date:        date,
			Amount:      amount,
			Description: row["description"],
			CategoryID:  categoryID,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		if err := t.db.DbConn.Create(m).Error; err != nil {
			return fmt.Errorf("failed to seed spending entry: %w", err)
		}
	}
	return nil
}

// Request steps

func (t *testContext) iSendARequestTo(method, endpoint string) error {
	return t.send(method, endpoint, nil)
}

func (t *testContext) iSendARequestToWithBody(method, endpoint string, body *godog.DocString) error {
	return t.send(method, endpoint, bytes.NewBufferString(body.Content))
}

func (t *testContext) send(method, endpoint string, body io.Reader) error {
	req, err := http.NewRequest(method, t.url+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	t.responseStatus = resp.StatusCode
	t.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// Response assertion steps

func (t *testContext) theResponseStatusShouldBe(expected int) error {
	if t.responseStatus != expected {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expected, t.responseStatus, string(t.responseBody))
	}
	return nil
}

func (t *testContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(t.responseBody), expected) {
		return fmt.Errorf("response does not contain %q. Body: %s", expected, string(t.responseBody))
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expected string) error {
	value, err := t.lookupField(field)
	if err != nil {
		return err
	}
	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field %q expected %q, got %q", field, expected, actual)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	_, err := t.lookupField(field)
	return err
}

// lookupField resolves a dot-separated path, with integer segments indexing
// arrays ("trends.0.income").
func (t *testContext) lookupField(path string) (any, error) {
	var data any
	if err := json.Unmarshal(t.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response. Body: %s", path, string(t.responseBody))
			}
			current = value
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index %q out of range for field %q", segment, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field %q not found in response", path)
		}
	}
	return current, nil
}

// Database assertion steps

func (t *testContext) theDbShouldContainObjectsInTheTable(expected int, table string) error {
	var count int64
	if err := t.db.DbConn.Table(table).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count rows in %q: %w", table, err)
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d rows in %q, got %d", expected, table, count)
	}
	return nil
}

// Cache assertion steps

func (t *testContext) theCacheShouldContainAKeyWithPrefix(prefix string) error {
	keys, err := t.cacheKeys(prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("no cache keys found under prefix %q", prefix)
	}
	return nil
}

func (t *testContext) theCacheShouldNotContainAKeyWithPrefix(prefix string) error {
	keys, err := t.cacheKeys(prefix)
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return fmt.Errorf("expected no cache keys under prefix %q, found %v", prefix, keys)
	}
	return nil
}

func (t *testContext) cacheKeys(prefix string) ([]string, error) {
	var keys []string
	iter := t.redis.Scan(context.Background(), 0, prefix+"*", 100).Iterator()
	for iter.Next(context.Background()) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

// Helpers

func tableRows(table *godog.Table) []map[string]string {
	if len(table.Rows) < 2 {
		return nil
	}
	headers := make([]string, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		headers[i] = cell.Value
	}
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		values := make(map[string]string, len(headers))
		for i, cell := range row.Cells {
			values[headers[i]] = cell.Value
		}
		rows = append(rows, values)
	}
	return rows
}

func parseEntryRow(row map[string]string) (time.Time, decimal.Decimal, error) {
	date, err := time.ParseInLocation("2006-01-02", row["date"], time.UTC)
	if err != nil {
		return time.Time{}, decimal.Zero, fmt.Errorf("invalid date %q", row["date"])
	}
	amount, err := decimal.NewFromString(row["amount"])
	if err != nil {
		return time.Time{}, decimal.Zero, fmt.Errorf("invalid amount %q", row["amount"])
	}
	return date, amount, nil
}

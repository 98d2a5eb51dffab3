// Package mealie is a minimal client for the Mealie shopping-list API.
// It speaks both the nightly /api/households/ route family and the older
// /api/groups/ one, discovering which the server supports at runtime.
package mealie

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API route prefixes in discovery order. Nightly builds moved the
// shopping endpoints from /api/groups to /api/households.
const (
	householdsPrefix = "/api/households/shopping"
	groupsPrefix     = "/api/groups/shopping"
)

const requestTimeout = 30 * time.Second

// ErrListNotFound is returned when no shopping list matches the
// requested name.
var ErrListNotFound = errors.New("shopping list not found")

// ErrNoLists is returned when neither route family yields any
// shopping lists.
var ErrNoLists = errors.New("no shopping lists returned")

// ShoppingList identifies one Mealie shopping list.
type ShoppingList struct {
	ID   string
	Name string
}

// ListItem is one line of a shopping list. Quantity is nil when the
// server reported none or a non-numeric value.
type ListItem struct {
	ID       string
	Display  string
	Note     string
	Quantity *float64
	Unit     string
}

// Client talks to one Mealie instance.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client

	// prefix is the route family discovered by ShoppingLists.
	prefix string
}

// NewClient returns a client for the Mealie instance at baseURL,
// authenticating every request with the given API token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: requestTimeout},
		prefix:  householdsPrefix,
	}
}

// ShoppingLists fetches every shopping list, trying the households
// route first and falling back to the groups route.
func (c *Client) ShoppingLists(ctx context.Context) ([]ShoppingList, error) {
	for _, prefix := range []string{householdsPrefix, groupsPrefix} {
		rows, err := c.getRows(ctx, prefix+"/lists", url.Values{"perPage": {"-1"}})
		if err != nil {
			continue
		}
		var lists []ShoppingList
		for _, row := range rows {
			id := stringField(row, "id", "uuid", "shoppingListId")
			name := stringField(row, "name")
			if id != "" && name != "" {
				lists = append(lists, ShoppingList{ID: id, Name: name})
			}
		}
		if len(lists) > 0 {
			c.prefix = prefix
			return lists, nil
		}
	}
	return nil, ErrNoLists
}

// ShoppingListByName finds the list whose name matches case-insensitively.
func (c *Client) ShoppingListByName(ctx context.Context, name string) (ShoppingList, error) {
	lists, err := c.ShoppingLists(ctx)
	if err != nil {
		return ShoppingList{}, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, lst := range lists {
		if strings.ToLower(strings.TrimSpace(lst.Name)) == want {
			return lst, nil
		}
	}
	return ShoppingList{}, fmt.Errorf("%w: %s", ErrListNotFound, name)
}

// ListItems fetches the items of one shopping list. Rows without an id
// or display text are skipped.
func (c *Client) ListItems(ctx context.Context, listID string) ([]ListItem, error) {
	rows, err := c.getRows(ctx, c.prefix+"/items", url.Values{
		"perPage":        {"-1"},
		"shoppingListId": {listID},
	})
	if err != nil {
		return nil, err
	}

	var items []ListItem
	for _, row := range rows {
		id := stringField(row, "id", "uuid")
		// Display text varies across Mealie versions.
		display := stringField(row, "display", "text", "originalText", "food", "label")
		if id == "" || display == "" {
			continue
		}
		item := ListItem{
			ID:      id,
			Display: display,
			Note:    stringField(row, "note"),
			Unit:    unitField(row["unit"]),
		}
		if qty, ok := row["quantity"].(float64); ok {
			item.Quantity = &qty
		}
		items = append(items, item)
	}
	return items, nil
}

// getRows performs a GET and decodes the row list from the response,
// accepting the paginated envelope forms {"items": [...]} and
// {"data": [...]} as well as a bare JSON array.
func (c *Client) getRows(ctx context.Context, path string, params url.Values) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build mealie request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mealie request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read mealie response %s: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("mealie API error %d for %s: %s", resp.StatusCode, path, truncate(string(body), 500))
	}

	var envelope struct {
		Items *[]map[string]any `json:"items"`
		Data  *[]map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Items != nil {
			return *envelope.Items, nil
		}
		if envelope.Data != nil {
			return *envelope.Data, nil
		}
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}
	return nil, fmt.Errorf("decode mealie response %s: unrecognized payload shape", path)
}

// stringField returns the first non-empty string value among keys.
func stringField(row map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := row[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// unitField extracts a unit label from either a plain string or the
// structured unit object newer Mealie versions return.
func unitField(v any) string {
	switch u := v.(type) {
	case string:
		return u
	case map[string]any:
		return stringField(u, "name", "abbreviation")
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

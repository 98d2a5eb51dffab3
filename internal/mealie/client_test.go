package mealie

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShoppingListsHouseholdsRoute(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("got Authorization %q, expected bearer token", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/api/households/shopping/lists" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"items": [{"id": "abc", "name": "Walmart"}, {"id": "def", "name": "Costco"}]}`)); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	lists, err := c.ShoppingLists(context.Background())
	if err != nil {
		t.Fatalf("ShoppingLists() error = %v, expected nil", err)
	}
	if len(lists) != 2 {
		t.Fatalf("got %d lists, expected 2", len(lists))
	}
	if lists[0].ID != "abc" || lists[0].Name != "Walmart" {
		t.Errorf("got %+v, expected id abc name Walmart", lists[0])
	}
}

func TestShoppingListsFallsBackToGroupsRoute(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/groups/shopping/lists":
			w.Header().Set("Content-Type", "application/json")
			if _, err := w.Write([]byte(`{"data": [{"id": "abc", "name": "Walmart"}]}`)); err != nil {
				t.Error(err)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	lists, err := c.ShoppingLists(context.Background())
	if err != nil {
		t.Fatalf("ShoppingLists() error = %v, expected nil", err)
	}
	if len(lists) != 1 || lists[0].Name != "Walmart" {
		t.Fatalf("got %+v, expected the Walmart list via the groups route", lists)
	}
	if c.prefix != groupsPrefix {
		t.Errorf("got prefix %q, expected %q after fallback", c.prefix, groupsPrefix)
	}
}

func TestShoppingListsNoLists(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	if _, err := c.ShoppingLists(context.Background()); !errors.Is(err, ErrNoLists) {
		t.Errorf("got error %v, expected ErrNoLists", err)
	}
}

func TestShoppingListByName(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"items": [{"id": "abc", "name": " Walmart "}]}`)); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")

	t.Run("case insensitive match", func(t *testing.T) {
		lst, err := c.ShoppingListByName(context.Background(), "walmart")
		if err != nil {
			t.Fatalf("ShoppingListByName() error = %v, expected nil", err)
		}
		if lst.ID != "abc" {
			t.Errorf("got id %q, expected abc", lst.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := c.ShoppingListByName(context.Background(), "Target"); !errors.Is(err, ErrListNotFound) {
			t.Errorf("got error %v, expected ErrListNotFound", err)
		}
	})
}

func TestListItems(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/households/shopping/items" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("shoppingListId"); got != "abc" {
			t.Errorf("got shoppingListId %q, expected abc", got)
		}
		w.Header().Set("Content-Type", "application/json")
		body := `{"items": [
			{"id": "i1", "display": "2 bananas", "quantity": 2, "unit": "each"},
			{"id": "i2", "text": "peanut butter", "note": "crunchy", "unit": {"name": "jar"}},
			{"id": "i3", "display": ""},
			{"display": "no id"}
		]}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	items, err := c.ListItems(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListItems() error = %v, expected nil", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, expected 2 (rows without id or display skipped)", len(items))
	}

	first := items[0]
	if first.Display != "2 bananas" || first.Unit != "each" {
		t.Errorf("got %+v, expected display and string unit preserved", first)
	}
	if first.Quantity == nil || *first.Quantity != 2 {
		t.Errorf("got quantity %v, expected 2", first.Quantity)
	}

	second := items[1]
	if second.Display != "peanut butter" {
		t.Errorf("got display %q, expected fallback to the text field", second.Display)
	}
	if second.Note != "crunchy" {
		t.Errorf("got note %q, expected crunchy", second.Note)
	}
	if second.Unit != "jar" {
		t.Errorf("got unit %q, expected name of the structured unit", second.Unit)
	}
	if second.Quantity != nil {
		t.Errorf("got quantity %v, expected nil", *second.Quantity)
	}
}

func TestListItemsBareArrayPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`[{"id": "i1", "display": "salt"}]`)); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	items, err := c.ListItems(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListItems() error = %v, expected nil", err)
	}
	if len(items) != 1 || items[0].Display != "salt" {
		t.Fatalf("got %+v, expected the single salt item", items)
	}
}

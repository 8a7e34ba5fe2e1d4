package data

import (
	"context"
	"errors"
	"testing"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data/search"
)

type mockTransport struct {
	health error
}

func (m *mockTransport) Type() search.EngineType { return "mock" }
func (m *mockTransport) IndexDocument(context.Context, string, string, map[string]any) error {
	return nil
}
func (m *mockTransport) DeleteDocument(context.Context, string, string) error { return nil }
func (m *mockTransport) Search(context.Context, *search.WireQuery) (*search.RawResponse, error) {
	return &search.RawResponse{}, nil
}
func (m *mockTransport) CreateIndex(context.Context, *search.IndexDefinition) error { return nil }
func (m *mockTransport) DeleteIndex(context.Context, string) error                  { return nil }
func (m *mockTransport) Health(context.Context) error                               { return m.health }

// Mock driver for testing
type mockSearchDriver struct {
	name   string
	err    error
	closed int
}

func (d *mockSearchDriver) Name() string { return d.name }
func (d *mockSearchDriver) Connect(ctx context.Context, cfg *config.Search) (search.Transport, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &mockTransport{}, nil
}
func (d *mockSearchDriver) Close(search.Transport) error {
	d.closed++
	return nil
}

func resetSearchDrivers() {
	searchDriversMu.Lock()
	searchDrivers = make(map[string]SearchDriver)
	searchDriversMu.Unlock()
}

func TestRegisterSearchDriver(t *testing.T) {
	resetSearchDrivers()

	driver := &mockSearchDriver{name: "test-search"}
	RegisterSearchDriver(driver)

	retrieved, err := GetSearchDriver("test-search")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if retrieved.Name() != "test-search" {
		t.Errorf("expected driver name 'test-search', got %q", retrieved.Name())
	}
}

func TestRegisterSearchDriverPanicsOnNil(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering nil driver")
		}
	}()

	RegisterSearchDriver(nil)
}

func TestRegisterSearchDriverPanicsOnEmptyName(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering driver without a name")
		}
	}()

	RegisterSearchDriver(&mockSearchDriver{})
}

func TestRegisterSearchDriverPanicsOnDuplicate(t *testing.T) {
	resetSearchDrivers()

	driver := &mockSearchDriver{name: "duplicate"}
	RegisterSearchDriver(driver)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering duplicate driver")
		}
	}()

	RegisterSearchDriver(driver)
}

func TestGetSearchDriverNotFound(t *testing.T) {
	resetSearchDrivers()

	_, err := GetSearchDriver("nonexistent")
	if err == nil {
		t.Errorf("expected error when getting non-existent driver")
	}
}

func TestListSearchDrivers(t *testing.T) {
	resetSearchDrivers()

	RegisterSearchDriver(&mockSearchDriver{name: "b"})
	RegisterSearchDriver(&mockSearchDriver{name: "a"})

	names := ListSearchDrivers()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected [a b], got %v", names)
	}
}

func TestOpen(t *testing.T) {
	resetSearchDrivers()

	driver := &mockSearchDriver{name: "mock"}
	RegisterSearchDriver(driver)

	tr, closeFn, err := Open(context.Background(), &config.Search{Engine: "mock"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tr.Type() != "mock" {
		t.Errorf("expected mock transport, got %q", tr.Type())
	}
	if err := closeFn(); err != nil {
		t.Errorf("expected no close error, got %v", err)
	}
	if driver.closed != 1 {
		t.Errorf("expected driver to be closed once, got %d", driver.closed)
	}

	if _, _, err := Open(context.Background(), &config.Search{Engine: "missing"}); err == nil {
		t.Errorf("expected error for unregistered engine")
	}
	if _, _, err := Open(context.Background(), nil); err == nil {
		t.Errorf("expected error for nil config")
	}
}

func TestOpenConnectError(t *testing.T) {
	resetSearchDrivers()

	boom := errors.New("connection refused")
	RegisterSearchDriver(&mockSearchDriver{name: "broken", err: boom})

	_, _, err := Open(context.Background(), &config.Search{Engine: "broken"})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped connect error, got %v", err)
	}
}

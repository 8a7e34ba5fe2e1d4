package opensearch_test

import (
	"context"
	"testing"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data"
	_ "github.com/ncobase/herosearch/data/opensearch" // Register driver
	"github.com/ncobase/herosearch/data/opensearch/client"
)

func TestDriverRegistration(t *testing.T) {
	driver, err := data.GetSearchDriver("opensearch")
	if err != nil {
		t.Fatalf("Failed to get opensearch driver: %v", err)
	}
	if driver.Name() != "opensearch" {
		t.Errorf("Expected driver name 'opensearch', got '%s'", driver.Name())
	}
}

func TestDriverConnect(t *testing.T) {
	driver, err := data.GetSearchDriver("opensearch")
	if err != nil {
		t.Fatalf("Failed to get opensearch driver: %v", err)
	}

	t.Run("NilConfig", func(t *testing.T) {
		if _, err := driver.Connect(context.Background(), nil); err == nil {
			t.Error("Expected error for nil config, got nil")
		}
	})

	t.Run("Valid", func(t *testing.T) {
		cfg := &config.Search{Engine: "opensearch", Scheme: "http", Host: "localhost", Port: 9200}
		conn, err := driver.Connect(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		if _, ok := conn.(*client.Client); !ok {
			t.Errorf("Expected *client.Client, got %T", conn)
		}
		if string(conn.Type()) != "opensearch" {
			t.Errorf("Expected engine type 'opensearch', got '%s'", conn.Type())
		}
		if err := driver.Close(conn); err != nil {
			t.Errorf("Failed to close connection: %v", err)
		}
	})
}

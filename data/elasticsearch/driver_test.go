package elasticsearch_test

import (
	"context"
	"testing"

	"github.com/ncobase/herosearch/config"
	"github.com/ncobase/herosearch/data"
	_ "github.com/ncobase/herosearch/data/elasticsearch" // Register driver
	"github.com/ncobase/herosearch/data/elasticsearch/client"
)

func TestDriverRegistration(t *testing.T) {
	driver, err := data.GetSearchDriver("elasticsearch")
	if err != nil {
		t.Fatalf("Failed to get elasticsearch driver: %v", err)
	}
	if driver.Name() != "elasticsearch" {
		t.Errorf("Expected driver name 'elasticsearch', got '%s'", driver.Name())
	}
}

func TestDriverConnect(t *testing.T) {
	driver, err := data.GetSearchDriver("elasticsearch")
	if err != nil {
		t.Fatalf("Failed to get elasticsearch driver: %v", err)
	}

	t.Run("NilConfig", func(t *testing.T) {
		if _, err := driver.Connect(context.Background(), nil); err == nil {
			t.Error("Expected error for nil config, got nil")
		}
	})

	t.Run("Valid", func(t *testing.T) {
		cfg := &config.Search{Engine: "elasticsearch", Scheme: "http", Host: "localhost", Port: 9200}
		conn, err := driver.Connect(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		if _, ok := conn.(*client.Client); !ok {
			t.Errorf("Expected *client.Client, got %T", conn)
		}
		if string(conn.Type()) != "elasticsearch" {
			t.Errorf("Expected engine type 'elasticsearch', got '%s'", conn.Type())
		}
		if err := driver.Close(conn); err != nil {
			t.Errorf("Failed to close connection: %v", err)
		}
	})
}

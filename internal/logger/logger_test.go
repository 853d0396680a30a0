package logger

import "testing"

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development", "local"} {
		t.Run(env, func(t *testing.T) {
			logger, err := New(env)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", env, err)
			}
			if logger == nil {
				t.Fatal("expected a logger")
			}
			logger.Sync()
		})
	}
}

func TestNewWithDefaults(t *testing.T) {
	logger := NewWithDefaults()
	if logger == nil {
		t.Fatal("expected a logger")
	}
	logger.Sync()
}

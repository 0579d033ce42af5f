package settings

import (
	"context"
	"testing"
)

func TestIntoContext(t *testing.T) {
	tests := []struct {
		name     string
		settings *Run
	}{
		{
			name:     "empty_settings",
			settings: &Run{},
		},
		{
			name: "settings_with_values",
			settings: &Run{
				Source:      "cars.json",
				NoColor:     true,
				CheckImages: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := IntoContext(context.Background(), tt.settings)
			got, ok := FromContext(ctx)
			if !ok {
				t.Fatal("FromContext() did not find settings")
			}
			if got != tt.settings {
				t.Errorf("FromContext() = %p, want %p", got, tt.settings)
			}
		})
	}
}

func TestFromContextMissing(t *testing.T) {
	got, ok := FromContext(context.Background())
	if ok || got != nil {
		t.Errorf("FromContext() on empty context = (%v, %v), want (nil, false)", got, ok)
	}
}

package security

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveWithin(t *testing.T) {
	base := t.TempDir()

	testCases := []struct {
		name    string
		elems   []string
		wantErr bool
	}{
		{name: "Simple child", elems: []string{"com.example.app"}, wantErr: false},
		{name: "Nested child", elems: []string{"com.example.app", "results.json"}, wantErr: false},
		{name: "Traversal", elems: []string{"..", "etc", "passwd"}, wantErr: true},
		{name: "Traversal through child", elems: []string{"app", "..", "..", "outside"}, wantErr: true},
		{name: "Dot dot alone", elems: []string{".."}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveWithin(base, tc.elems...)
			if tc.wantErr {
				if !errors.Is(err, ErrPathEscape) {
					t.Errorf("Expected ErrPathEscape, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			expected := filepath.Join(append([]string{base}, tc.elems...)...)
			if got != expected {
				t.Errorf("Expected %s, got %s", expected, got)
			}
		})
	}
}

func TestResolveWithin_EmptyBase(t *testing.T) {
	if _, err := ResolveWithin(""); err == nil {
		t.Error("Expected an error for empty base")
	}
}

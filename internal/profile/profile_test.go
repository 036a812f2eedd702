package profile

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nissyi-gh/socialdebt/internal/model"
	"github.com/nissyi-gh/socialdebt/internal/store"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	m, err := NewManager(s)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m, s
}

func TestSave(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		wantErr error
	}{
		{"valid", model.Profile{Name: "  Kim ", Role: "Engineer"}, nil},
		{"blank name", model.Profile{Name: "   "}, ErrNameRequired},
		{"name too long", model.Profile{Name: strings.Repeat("n", 101)}, ErrFieldTooLong},
		{"department too long", model.Profile{Name: "Kim", Department: strings.Repeat("d", 101)}, ErrFieldTooLong},
		{"limit is inclusive", model.Profile{Name: strings.Repeat("é", 100)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			err := m.Save(tt.profile)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Save() error = %v, want %v", err, tt.wantErr)
			}
			if m.HasProfile() != (tt.wantErr == nil) {
				t.Errorf("HasProfile() = %v", m.HasProfile())
			}
		})
	}
}

func TestSaveTrimsAndPersists(t *testing.T) {
	m, s := newTestManager(t)
	if err := m.Save(model.Profile{Name: " Kim Lee ", Role: " Lead "}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewManager(s)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	p, ok := reloaded.Profile()
	if !ok || p.Name != "Kim Lee" || p.Role != "Lead" {
		t.Errorf("Profile() = %+v, %v", p, ok)
	}
}

func TestAvatar(t *testing.T) {
	m, s := newTestManager(t)

	t.Run("image is stored as a data URL", func(t *testing.T) {
		if err := m.SetAvatar(pngHeader); err != nil {
			t.Fatalf("SetAvatar failed: %v", err)
		}
		if !strings.HasPrefix(m.Avatar(), "data:image/png;base64,") {
			t.Errorf("Avatar() = %q", m.Avatar())
		}
		stored, _ := s.LoadAvatar()
		if stored != m.Avatar() {
			t.Error("avatar was not persisted")
		}
	})

	t.Run("non-image is rejected", func(t *testing.T) {
		before := m.Avatar()
		if err := m.SetAvatar([]byte("just some text")); !errors.Is(err, ErrNotAnImage) {
			t.Errorf("SetAvatar(text) error = %v, want ErrNotAnImage", err)
		}
		if m.Avatar() != before {
			t.Error("rejected avatar replaced the stored one")
		}
	})

	t.Run("oversized image is rejected", func(t *testing.T) {
		big := append(bytes.Clone(pngHeader), make([]byte, 4*1024*1024)...)
		if err := m.SetAvatar(big); !errors.Is(err, ErrAvatarTooLarge) {
			t.Errorf("SetAvatar(big) error = %v, want ErrAvatarTooLarge", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := m.RemoveAvatar(); err != nil {
			t.Fatalf("RemoveAvatar failed: %v", err)
		}
		if m.Avatar() != "" {
			t.Errorf("Avatar() = %q after remove", m.Avatar())
		}
	})
}

func TestClear(t *testing.T) {
	m, s := newTestManager(t)
	m.Save(model.Profile{Name: "Kim"})
	m.SetAvatar(pngHeader)

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if m.HasProfile() || m.Avatar() != "" {
		t.Error("Clear left state in memory")
	}
	if _, ok, _ := s.LoadProfile(); ok {
		t.Error("Clear left the stored profile")
	}
}

func TestToggleTheme(t *testing.T) {
	m, s := newTestManager(t)
	if m.Theme() != model.Light {
		t.Fatalf("default theme = %q, want light", m.Theme())
	}
	if got, err := m.ToggleTheme(); err != nil || got != model.Dark {
		t.Fatalf("ToggleTheme() = %q, %v", got, err)
	}
	if stored, _ := s.LoadTheme(); stored != model.Dark {
		t.Errorf("stored theme = %q", stored)
	}
	if got, _ := m.ToggleTheme(); got != model.Light {
		t.Errorf("second ToggleTheme() = %q", got)
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"kim lee":          "KL",
		"Ada":              "A",
		"  jo  ann  smith": "JA",
		"":                 "",
		"élodie durand":    "ÉD",
	}
	for name, want := range tests {
		if got := Initials(name); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

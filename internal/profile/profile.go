// Package profile manages the user's identity, avatar and theme.
package profile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

const (
	// MaxField is the longest name, role or department accepted.
	MaxField = 100
	// MaxAvatarSize caps the stored data URL.
	MaxAvatarSize = 5 * 1024 * 1024
)

var (
	ErrNameRequired   = errors.New("Name is required")
	ErrFieldTooLong   = fmt.Errorf("Profile fields are limited to %d characters", MaxField)
	ErrAvatarTooLarge = errors.New("Avatar image too large (max 5MB)")
	ErrNotAnImage     = errors.New("Avatar must be an image")
)

// Store persists the profile blobs.
type Store interface {
	LoadProfile() (model.Profile, bool, error)
	SaveProfile(model.Profile) error
	LoadAvatar() (string, error)
	SaveAvatar(dataURL string) error
	RemoveAvatar() error
	ClearProfile() error
	LoadTheme() (model.Theme, error)
	SaveTheme(model.Theme) error
}

// Manager caches the profile and writes every change through to the store.
type Manager struct {
	store   Store
	profile *model.Profile
	avatar  string
	theme   model.Theme
}

// NewManager loads the stored profile, avatar and theme.
func NewManager(s Store) (*Manager, error) {
	m := &Manager{store: s}
	p, ok, err := s.LoadProfile()
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if ok {
		m.profile = &p
	}
	if m.avatar, err = s.LoadAvatar(); err != nil {
		return nil, fmt.Errorf("load avatar: %w", err)
	}
	if m.theme, err = s.LoadTheme(); err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	return m, nil
}

// Profile returns the stored profile. ok is false until one is saved.
func (m *Manager) Profile() (p model.Profile, ok bool) {
	if m.profile == nil {
		return model.Profile{}, false
	}
	return *m.profile, true
}

// HasProfile reports whether the first-run setup is done.
func (m *Manager) HasProfile() bool {
	return m.profile != nil
}

// Save trims and validates p, then stores it.
func (m *Manager) Save(p model.Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Role = strings.TrimSpace(p.Role)
	p.Department = strings.TrimSpace(p.Department)
	if p.Name == "" {
		return ErrNameRequired
	}
	for _, f := range []string{p.Name, p.Role, p.Department} {
		if utf8.RuneCountInString(f) > MaxField {
			return ErrFieldTooLong
		}
	}
	if err := m.store.SaveProfile(p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	m.profile = &p
	return nil
}

// Clear forgets the profile and the avatar.
func (m *Manager) Clear() error {
	if err := m.store.ClearProfile(); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	m.profile = nil
	m.avatar = ""
	return nil
}

// Avatar returns the avatar data URL, or "".
func (m *Manager) Avatar() string {
	return m.avatar
}

// SetAvatar stores image bytes as a data URL.
func (m *Manager) SetAvatar(data []byte) error {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return ErrNotAnImage
	}
	url := "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	if len(url) > MaxAvatarSize {
		return ErrAvatarTooLarge
	}
	if err := m.store.SaveAvatar(url); err != nil {
		return fmt.Errorf("save avatar: %w", err)
	}
	m.avatar = url
	return nil
}

// RemoveAvatar deletes the stored avatar.
func (m *Manager) RemoveAvatar() error {
	if err := m.store.RemoveAvatar(); err != nil {
		return fmt.Errorf("remove avatar: %w", err)
	}
	m.avatar = ""
	return nil
}

// Theme returns the current theme.
func (m *Manager) Theme() model.Theme {
	return m.theme
}

// ToggleTheme switches between light and dark and stores the result.
func (m *Manager) ToggleTheme() (model.Theme, error) {
	next := model.Dark
	if m.theme == model.Dark {
		next = model.Light
	}
	if err := m.store.SaveTheme(next); err != nil {
		return m.theme, fmt.Errorf("save theme: %w", err)
	}
	m.theme = next
	return next, nil
}

// Initials returns up to two uppercase initials of name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteString(strings.ToUpper(string(r)))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}

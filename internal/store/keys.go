package store

import "github.com/nissyi-gh/socialdebt/internal/model"

// LoadFavors returns the persisted favor list, or an empty list if none is stored.
func (s *Store) LoadFavors() ([]model.Favor, error) {
	var favors []model.Favor
	if _, err := s.GetJSON(KeyFavors, &favors); err != nil {
		return nil, err
	}
	if favors == nil {
		favors = []model.Favor{}
	}
	return favors, nil
}

// SaveFavors replaces the persisted favor list.
func (s *Store) SaveFavors(favors []model.Favor) error {
	if favors == nil {
		favors = []model.Favor{}
	}
	return s.SetJSON(KeyFavors, favors)
}

// LoadProfile returns the stored profile. ok is false on first run.
func (s *Store) LoadProfile() (p model.Profile, ok bool, err error) {
	ok, err = s.GetJSON(KeyProfile, &p)
	return p, ok, err
}

// SaveProfile stores the profile.
func (s *Store) SaveProfile(p model.Profile) error {
	return s.SetJSON(KeyProfile, p)
}

// LoadAvatar returns the avatar data URL, or "" when none is stored.
func (s *Store) LoadAvatar() (string, error) {
	v, _, err := s.Get(KeyAvatar)
	return v, err
}

// SaveAvatar stores the avatar data URL as-is.
func (s *Store) SaveAvatar(dataURL string) error {
	return s.Set(KeyAvatar, dataURL)
}

// RemoveAvatar deletes the stored avatar.
func (s *Store) RemoveAvatar() error {
	return s.Remove(KeyAvatar)
}

// LoadTheme returns the stored theme, defaulting to light.
func (s *Store) LoadTheme() (model.Theme, error) {
	v, ok, err := s.Get(KeyTheme)
	if err != nil || !ok {
		return model.Light, err
	}
	if model.Theme(v) == model.Dark {
		return model.Dark, nil
	}
	return model.Light, nil
}

// SaveTheme stores the theme.
func (s *Store) SaveTheme(t model.Theme) error {
	return s.Set(KeyTheme, string(t))
}

// ClearProfile removes the profile and the avatar. The two removals are
// separate writes.
func (s *Store) ClearProfile() error {
	if err := s.Remove(KeyProfile); err != nil {
		return err
	}
	return s.Remove(KeyAvatar)
}

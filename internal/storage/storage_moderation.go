package storage

// AddWarning records a warning and returns the user's new warning count.
func (s *Storage) AddWarning(guildID string, w Warning) (int, error) {
	var count int
	err := s.update(guildID, func(r *Record) error {
		r.Warnings[w.UserID] = append(r.Warnings[w.UserID], w)
		count = len(r.Warnings[w.UserID])
		return nil
	})
	return count, err
}

// Warnings returns the warnings recorded for a user, oldest first.
func (s *Storage) Warnings(guildID, userID string) ([]Warning, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.Warnings[userID], nil
}

// AllWarnings returns every user's warnings in a guild.
func (s *Storage) AllWarnings(guildID string) (map[string][]Warning, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.Warnings, nil
}

// ClearWarnings removes a user's warnings and returns how many were removed.
func (s *Storage) ClearWarnings(guildID, userID string) (int, error) {
	var removed int
	err := s.update(guildID, func(r *Record) error {
		removed = len(r.Warnings[userID])
		delete(r.Warnings, userID)
		return nil
	})
	return removed, err
}

// AddBan records a ban.
func (s *Storage) AddBan(guildID string, b Ban) error {
	return s.update(guildID, func(r *Record) error {
		r.Bans = append(r.Bans, b)
		return nil
	})
}

// Bans returns all bans recorded for a guild, oldest first.
func (s *Storage) Bans(guildID string) ([]Ban, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.Bans, nil
}

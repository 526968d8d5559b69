package storage

// AppendCommand appends a command history record for a guild, keeping the
// most recent entries only.
func (s *Storage) AppendCommand(guildID string, rec CommandRecord) error {
	return s.update(guildID, func(r *Record) error {
		r.CommandHistory = append(r.CommandHistory, rec)
		if len(r.CommandHistory) > commandHistoryLimit {
			r.CommandHistory = r.CommandHistory[len(r.CommandHistory)-commandHistoryLimit:]
		}
		return nil
	})
}

func (s *Storage) CommandHistory(guildID string) ([]CommandRecord, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandHistory, nil
}

package model

// Tables lists every model owned by the candidate store, in migration order.
func Tables() []interface{} {
	return []interface{}{
		&Candidate{},
		&AuditEvent{},
		&ConversationMessage{},
	}
}

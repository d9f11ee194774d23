package audit

import "fmt"

type EventType string

const (
	DataCreated   EventType = "DATA_CREATED"
	DataUpdated   EventType = "DATA_UPDATED"
	DataAccessed  EventType = "DATA_ACCESSED"
	DataExported  EventType = "DATA_EXPORTED"
	DataDeleted   EventType = "DATA_DELETED"
	BatchDeletion EventType = "BATCH_DELETION"
)

// SystemActor stands in for a candidate id on batch operations.
const SystemActor = "SYSTEM"

var eventTypes = []EventType{DataCreated, DataUpdated, DataAccessed, DataExported, DataDeleted, BatchDeletion}

func (t EventType) Valid() bool {
	for _, known := range eventTypes {
		if t == known {
			return true
		}
	}
	return false
}

func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown audit event type %q", s)
	}
	return t, nil
}

// Package export moves committed ledger mutations onto a RabbitMQ
// queue so the sync worker can mirror them into the export sheet
// without the API process waiting on Google.
package export

import (
	"encoding/json"
	"time"

	"luxe/internal/core"
)

// RecordEvent is the lightweight message published for every record
// mutation. It carries only the identity of the record; the worker
// fetches current data from storage when it processes the event.
type RecordEvent struct {
	Op        string    `json:"op"`
	Kind      core.Kind `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(op string, kind core.Kind, id int64) *RecordEvent {
	return &RecordEvent{
		Op:        op,
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

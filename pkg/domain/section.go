package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionStatus tags the progress of a single submission section.
type SectionStatus string

// Section statuses shared by every section of a submission or template.
const (
	// StatusNotStarted marks a section that carries no payload yet.
	StatusNotStarted SectionStatus = "NotStarted"
	// StatusStarted marks a section with a partial payload.
	StatusStarted SectionStatus = "Started"
	// StatusComplete marks a section whose payload is fully specified.
	StatusComplete SectionStatus = "Complete"
	// StatusCannotStart marks a section gated on a prerequisite section.
	StatusCannotStart SectionStatus = "CannotStart"
)

// Valid reports whether s is one of the known section statuses.
func (s SectionStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusStarted, StatusComplete, StatusCannotStart:
		return true
	}
	return false
}

// Progressed reports whether the status carries a payload.
func (s SectionStatus) Progressed() bool {
	return s == StatusStarted || s == StatusComplete
}

// Section is a status-tagged section value. The payload is only reachable
// through Payload, which refuses to hand it out before the section has started.
type Section[T any] struct {
	status  SectionStatus
	payload *T
}

// NotStarted returns an empty section.
func NotStarted[T any]() Section[T] {
	return Section[T]{status: StatusNotStarted}
}

// CannotStart returns a gated, empty section.
func CannotStart[T any]() Section[T] {
	return Section[T]{status: StatusCannotStart}
}

// Started returns a section holding a partial payload.
func Started[T any](payload T) Section[T] {
	payload = clonePayload(payload)
	return Section[T]{status: StatusStarted, payload: &payload}
}

// Complete returns a section holding a full payload.
func Complete[T any](payload T) Section[T] {
	payload = clonePayload(payload)
	return Section[T]{status: StatusComplete, payload: &payload}
}

// clonePayload deep copies payloads that know how to clone themselves.
// Payloads without reference fields are copied by value.
func clonePayload[T any](p T) T {
	if c, ok := any(p).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return p
}

// Status returns the section status. The zero Section reports NotStarted.
func (s Section[T]) Status() SectionStatus {
	if s.status == "" {
		return StatusNotStarted
	}
	return s.status
}

// Payload returns a copy of the section payload when the section is Started
// or Complete.
func (s Section[T]) Payload() (T, bool) {
	if !s.Status().Progressed() || s.payload == nil {
		var zero T
		return zero, false
	}
	return clonePayload(*s.payload), true
}

// WithStatus returns a copy of the section carrying status. Payloads are kept
// when moving between Started and Complete and dropped otherwise.
func (s Section[T]) WithStatus(status SectionStatus) Section[T] {
	if !status.Progressed() {
		return Section[T]{status: status}
	}
	out := Section[T]{status: status}
	if s.payload != nil {
		p := clonePayload(*s.payload)
		out.payload = &p
	}
	return out
}

// MapPayload returns a copy of the section whose payload was transformed by fn.
// Sections without a payload are returned unchanged.
func (s Section[T]) MapPayload(fn func(T) T) Section[T] {
	p, ok := s.Payload()
	if !ok {
		return Section[T]{status: s.Status()}
	}
	next := clonePayload(fn(p))
	return Section[T]{status: s.status, payload: &next}
}

// MarshalJSON flattens the payload fields next to the status field.
func (s Section[T]) MarshalJSON() ([]byte, error) {
	status, err := json.Marshal(s.Status())
	if err != nil {
		return nil, err
	}
	p, ok := s.Payload()
	if !ok {
		return []byte(`{"status":` + string(status) + `}`), nil
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("section payload %T must encode as a JSON object", p)
	}
	if string(body) == "{}" {
		return []byte(`{"status":` + string(status) + `}`), nil
	}
	var buf bytes.Buffer
	buf.WriteString(`{"status":`)
	buf.Write(status)
	buf.WriteByte(',')
	buf.Write(body[1:])
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the flattened section form produced by MarshalJSON.
func (s *Section[T]) UnmarshalJSON(data []byte) error {
	var head struct {
		Status SectionStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.Status == "" {
		head.Status = StatusNotStarted
	}
	if !head.Status.Valid() {
		return fmt.Errorf("unknown section status %q", head.Status)
	}
	if !head.Status.Progressed() {
		*s = Section[T]{status: head.Status}
		return nil
	}
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	*s = Section[T]{status: head.Status, payload: &payload}
	return nil
}

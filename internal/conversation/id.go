package conversation

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a conversation or a message. It is either Ephemeral, created
// locally before the backend has acknowledged the entity, or Persisted, holding
// the backend-assigned id. The zero ID is neither and identifies nothing.
//
// ID is comparable and safe to use as a map key.
type ID struct {
	local  uint64
	server string
}

// Ephemeral returns a client-owned id. n must be non-zero.
func Ephemeral(n uint64) ID {
	if n == 0 {
		panic("conversation: ephemeral id must be non-zero")
	}
	return ID{local: n}
}

// Persisted returns a backend-owned id. An empty server id yields the zero ID.
func Persisted(serverID string) ID {
	return ID{server: serverID}
}

// IsZero reports whether id is unset.
func (id ID) IsZero() bool {
	return id.local == 0 && id.server == ""
}

// IsEphemeral reports whether id was generated locally.
func (id ID) IsEphemeral() bool {
	return id.local != 0
}

// IsPersisted reports whether id was assigned by the backend.
func (id ID) IsPersisted() bool {
	return id.local == 0 && id.server != ""
}

// ServerRef returns the id as it may be sent to the backend: nil for
// ephemeral and zero ids, which the backend cannot resolve.
func (id ID) ServerRef() *string {
	if !id.IsPersisted() {
		return nil
	}
	s := id.server
	return &s
}

// String renders the id for logs and display.
func (id ID) String() string {
	switch {
	case id.IsEphemeral():
		return "temp-" + strconv.FormatUint(id.local, 10)
	case id.server != "":
		return id.server
	default:
		return "<none>"
	}
}

// IDSource hands out ephemeral ids from a monotonically increasing counter.
// The zero value is ready to use; the first id is Ephemeral(1).
type IDSource struct {
	n atomic.Uint64
}

// Next returns a fresh ephemeral id.
func (s *IDSource) Next() ID {
	return Ephemeral(s.n.Add(1))
}

package broker

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message wraps a published payload with delivery metadata.
// The broker routes a message to handlers registered for its Name and Group.
type Message struct {
	ID          string    // Unique identifier for the message
	Name        string    // Payload type name (e.g., "UserCreated")
	Payload     any       // The published value
	Group       string    // Target subscriber group ("" is the default group)
	PublishedAt time.Time // When the message was published
}

// newMessage builds a Message with an auto-generated ID and timestamp.
// The name is derived from the payload type using reflection.
func newMessage(payload any, group string) Message {
	return Message{
		ID:          uuid.New().String(),
		Name:        messageName(payload),
		Payload:     payload,
		Group:       group,
		PublishedAt: time.Now(),
	}
}

// messageNameCache caches reflection results for payload name lookups.
// Key is reflect.Type, value is the message name string.
var messageNameCache sync.Map

// typeName derives the message name from a reflect.Type.
// For structs, it returns the struct name.
// For pointers to structs, it returns the struct name.
// Results are cached to avoid repeated reflection overhead.
//
// Returns only the bare type name without package path (e.g., "UserCreated").
// Users must ensure unique payload type names across their codebase to avoid
// handler collisions.
func typeName(t reflect.Type) string {
	if name, ok := messageNameCache.Load(t); ok {
		return name.(string)
	}

	original := t
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var name string
	if t.Name() != "" {
		name = t.Name()
	} else {
		name = t.String()
	}

	messageNameCache.Store(original, name)
	return name
}

// messageName returns the message name for a given payload instance.
// A nil payload has no name and matches no handler.
func messageName(payload any) string {
	t := reflect.TypeOf(payload)
	if t == nil {
		return ""
	}
	return typeName(t)
}

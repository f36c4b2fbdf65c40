package hardlight

import "reflect"

// NetworkMessage is an event on its way to clients.
type NetworkMessage struct {
	Tick    uint64
	Name    string
	Payload any
}

// NetworkSink receives events raised with Manager.RaiseNetworkEvent.
// Publish is called on the tick goroutine and must not block.
type NetworkSink interface {
	Publish(msg NetworkMessage)
}

// NetworkNamer lets an event choose its name on the wire.
type NetworkNamer interface {
	NetworkName() string
}

// NetworkName returns the wire name of an event: its NetworkName method if it
// has one, otherwise its type name.
func NetworkName(event any) string {
	if n, ok := event.(NetworkNamer); ok {
		return n.NetworkName()
	}
	t := reflect.TypeOf(event)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type nopSink struct{}

func (nopSink) Publish(NetworkMessage) {}

// Package bus subscribes to the message bus relay and hands decoded
// frames to the event dispatch table.
package bus

import "encoding/json"

// Frame is one inbound bus message: a topic plus a raw JSON body. The
// events package decodes bodies into typed build events.
type Frame struct {
	ID    string
	Topic string
	Body  json.RawMessage
}

package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/tubular-cli/tubular/log"
)

// EventCallback receives mpv events. For property changes name is the property and data its new value;
// for other events name is the event type and data is nil.
type EventCallback func(name string, data json.RawMessage)

// EventListener keeps a persistent IPC connection open and forwards everything mpv broadcasts on it.
type EventListener struct {
	socketPath string
	properties []string
	callback   EventCallback
	conn       net.Conn
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a listener that also observes the given properties.
func NewEventListener(socketPath string, callback EventCallback, properties ...string) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		properties: properties,
		callback:   callback,
	}
}

// Start connects, registers property observers on the same connection and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// observers are scoped to the connection that registered them
	for i, name := range el.properties {
		if err := writeCommand(conn, []any{"observe_property", i + 1, name}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.done = make(chan struct{})
	el.listening = true
	go el.readLoop(conn, el.done)

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	conn, done := el.conn, el.done
	el.mu.Unlock()

	_ = conn.Close()
	<-done
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		el.processEvent(scanner.Bytes())
	}

	el.mu.Lock()
	stopped := !el.listening
	el.listening = false
	el.mu.Unlock()

	if err := scanner.Err(); err != nil && !stopped {
		log.Warnf("event listener read error: %v", err)
	}
}

// processEvent dispatches a single line. Replies to observe_property carry no event and are skipped.
func (el *EventListener) processEvent(line []byte) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" || el.callback == nil {
		return
	}

	if msg.Event == "property-change" {
		if msg.Name != "" {
			el.callback(msg.Name, msg.Data)
		}
		return
	}
	el.callback(msg.Event, nil)
}

package player

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers JSON-IPC commands on a unix socket and can broadcast events.
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	conns    []net.Conn
	commands [][]any
	timePos  float64
	wg       sync.WaitGroup
}

func newFakeMPV(t *testing.T) *fakeMPV {
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	l, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeMPV{listener: l, timePos: 42.5}
	f.wg.Add(1)
	go f.accept()
	return f
}

func (f *fakeMPV) socket() string {
	return f.listener.Addr().String()
}

func (f *fakeMPV) accept() {
	defer f.wg.Done()
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.conns = append(f.conns, conn)
		f.mu.Unlock()

		f.wg.Add(1)
		go f.serve(conn)
	}
}

func (f *fakeMPV) serve(conn net.Conn) {
	defer f.wg.Done()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil || len(cmd.Command) == 0 {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		pos := f.timePos
		f.mu.Unlock()

		// mpv broadcasts events to every client, including command connections
		if cmd.Command[0] == "get_property" {
			_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
		}

		reply := map[string]any{"error": "success", "request_id": 0}
		if len(cmd.Command) == 2 && cmd.Command[0] == "get_property" {
			switch cmd.Command[1] {
			case "time-pos":
				reply["data"] = pos
			default:
				reply["error"] = "property unavailable"
			}
		}
		payload, _ := json.Marshal(reply)
		_, _ = conn.Write(append(payload, '\n'))
	}
}

func (f *fakeMPV) broadcast(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns {
		_, _ = c.Write([]byte(line + "\n"))
	}
}

func (f *fakeMPV) sent(name string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]any
	for _, c := range f.commands {
		if len(c) > 0 && c[0] == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeMPV) waitObserved(n int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(f.sent("observe_property")) >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func (f *fakeMPV) close() {
	_ = f.listener.Close()
	f.mu.Lock()
	for _, c := range f.conns {
		_ = c.Close()
	}
	f.mu.Unlock()
	f.wg.Wait()
}

func TestIPC(t *testing.T) {
	Convey("Given an mpv IPC socket", t, func() {
		fake := newFakeMPV(t)
		defer fake.close()

		m := NewMPV(MPVOptions{})
		m.socketPath = fake.socket()

		Convey("CurrentTime should skip events and read the reply", func() {
			pos, err := m.CurrentTime()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 42.5)
		})

		Convey("Seek should send an absolute seek", func() {
			So(m.Seek(12), ShouldBeNil)
			seeks := fake.sent("seek")
			So(seeks, ShouldHaveLength, 1)
			So(seeks[0][1], ShouldEqual, 12.0)
			So(seeks[0][2], ShouldEqual, "absolute")
		})

		Convey("mpv errors should be reported", func() {
			_, err := m.getFloatProperty("duration")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
		})

		Convey("file-loaded should make the handle ready exactly once", func() {
			So(m.listen(), ShouldBeNil)
			So(fake.waitObserved(1), ShouldBeTrue)

			fake.broadcast(`{"event":"file-loaded"}`)
			fake.broadcast(`{"event":"file-loaded"}`)

			select {
			case <-m.Ready():
			case <-time.After(2 * time.Second):
				So("ready", ShouldEqual, "timed out")
			}

			So(m.Destroy(), ShouldBeNil)
			So(m.Destroy(), ShouldBeNil)
		})
	})

	Convey("Given a handle that was never loaded", t, func() {
		m := NewMPV(MPVOptions{})

		Convey("Commands should fail", func() {
			_, err := m.CurrentTime()
			So(err, ShouldNotBeNil)
		})

		Convey("Destroy should be a no-op", func() {
			So(m.Destroy(), ShouldBeNil)
		})

		Convey("Load after Destroy should fail", func() {
			So(m.Destroy(), ShouldBeNil)
			So(m.Load(t.Context(), "dQw4w9WgXcQ"), ShouldNotBeNil)
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given a listener observing a property", t, func() {
		fake := newFakeMPV(t)
		defer fake.close()

		got := make(chan string, 4)
		el := NewEventListener(fake.socket(), func(name string, data json.RawMessage) {
			got <- name + "=" + string(data)
		}, "pause")
		So(el.Start(), ShouldBeNil)
		So(el.Start(), ShouldBeNil)
		So(fake.waitObserved(1), ShouldBeTrue)

		Convey("Property changes should carry the property name and value", func() {
			fake.broadcast(`{"event":"property-change","id":1,"name":"pause","data":true}`)
			So(<-got, ShouldEqual, "pause=true")
		})

		Convey("Other events should carry the event name", func() {
			fake.broadcast(`{"event":"end-file"}`)
			So(<-got, ShouldEqual, "end-file=")
		})

		el.Stop()
		el.Stop()
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		_, err := sanitizeMediaTarget("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		So(err, ShouldBeNil)

		_, err = sanitizeMediaTarget("--script=evil.lua")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("file:///etc/passwd")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("https://x\n--flag")
		So(err, ShouldNotBeNil)
	})

	Convey("sanitizeTitle", t, func() {
		So(sanitizeTitle(" a\nb\tc\x00 "), ShouldEqual, "a b c")
	})
}

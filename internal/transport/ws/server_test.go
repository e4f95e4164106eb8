package ws

import (
	"encoding/json"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"terrafield.ai/internal/levels"
	"terrafield.ai/internal/protocol"
	"terrafield.ai/internal/terrain"
)

func dialServer(t *testing.T) *websocket.Conn {
	t.Helper()
	logger := log.New(os.Stderr, "[ws-test] ", log.LstdFlags)
	srv := NewServer(levels.Defaults(), logger, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func hello(t *testing.T, conn *websocket.Conn) protocol.WelcomeMsg {
	t.Helper()
	send(t, conn, protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: "test"})
	var welcome protocol.WelcomeMsg
	recv(t, conn, &welcome)
	return welcome
}

func TestServer_HandshakeListsLevels(t *testing.T) {
	conn := dialServer(t)
	welcome := hello(t, conn)
	if welcome.Type != protocol.TypeWelcome {
		t.Fatalf("type %q", welcome.Type)
	}
	if welcome.FieldWidth != terrain.Width || welcome.FieldHeight != terrain.Height {
		t.Fatalf("dimensions %dx%d", welcome.FieldWidth, welcome.FieldHeight)
	}
	if welcome.DefaultLevelID != "level_1" || len(welcome.LevelIDs) == 0 {
		t.Fatalf("levels: %+v", welcome)
	}
}

func TestServer_GenerateByLevelID(t *testing.T) {
	conn := dialServer(t)
	hello(t, conn)

	send(t, conn, protocol.GenerateMsg{
		Type:            protocol.TypeGenerate,
		ProtocolVersion: protocol.Version,
		RequestID:       "R1",
		LevelID:         "level_1",
	})
	var field protocol.FieldMsg
	recv(t, conn, &field)
	if field.Type != protocol.TypeField || field.RequestID != "R1" {
		t.Fatalf("unexpected response: %+v", field)
	}
	if len(field.Cells) != terrain.Width*terrain.Height {
		t.Fatalf("cells len %d", len(field.Cells))
	}

	// Matches a direct in-process generation of the same record.
	spec, _ := levels.Defaults().Level("level_1")
	want, err := terrain.Generate(spec.Params())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if field.Digest != want.Digest() {
		t.Fatalf("digest %s, want %s", field.Digest, want.Digest())
	}
}

func TestServer_GenerateInlineParams(t *testing.T) {
	conn := dialServer(t)
	hello(t, conn)

	send(t, conn, protocol.GenerateMsg{
		Type:            protocol.TypeGenerate,
		ProtocolVersion: protocol.Version,
		RequestID:       "R2",
		Params: &protocol.ParamsMsg{
			Seed:         42,
			WalkLength:   100,
			TerrainRaise: 5,
			StartX:       10,
			StartY:       20,
			SmoothPasses: 1,
		},
	})
	var field protocol.FieldMsg
	recv(t, conn, &field)
	if field.Type != protocol.TypeField {
		t.Fatalf("unexpected response: %+v", field)
	}

	want, err := terrain.Generate(terrain.Params{
		Seed: 42, WalkLength: 100, TerrainRaise: 5, StartX: 10, StartY: 20, SmoothPasses: 1,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if field.Digest != want.Digest() {
		t.Fatalf("digest %s, want %s", field.Digest, want.Digest())
	}
}

func TestServer_UnknownLevel(t *testing.T) {
	conn := dialServer(t)
	hello(t, conn)

	send(t, conn, protocol.GenerateMsg{
		Type:            protocol.TypeGenerate,
		ProtocolVersion: protocol.Version,
		RequestID:       "R3",
		LevelID:         "ghost",
	})
	var errMsg protocol.ErrorMsg
	recv(t, conn, &errMsg)
	if errMsg.Type != protocol.TypeError || errMsg.Code != protocol.ErrLevelNotFound {
		t.Fatalf("unexpected response: %+v", errMsg)
	}
	if !protocol.IsKnownCode(errMsg.Code) {
		t.Fatalf("unknown error code %q", errMsg.Code)
	}
}

func TestServer_MissingLevelAndParams(t *testing.T) {
	conn := dialServer(t)
	hello(t, conn)

	send(t, conn, protocol.GenerateMsg{Type: protocol.TypeGenerate, ProtocolVersion: protocol.Version})
	var errMsg protocol.ErrorMsg
	recv(t, conn, &errMsg)
	if errMsg.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("code %q, want %q", errMsg.Code, protocol.ErrProtoBadRequest)
	}
}

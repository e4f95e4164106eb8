package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"terrafield.ai/internal/levels"
	persistlog "terrafield.ai/internal/persistence/log"
	"terrafield.ai/internal/protocol"
	"terrafield.ai/internal/terrain"
)

type Server struct {
	cfg  levels.Config
	log  *log.Logger
	gens *persistlog.GenerationLogger // optional

	upgrader websocket.Upgrader
}

func NewServer(cfg levels.Config, logger *log.Logger, gens *persistlog.GenerationLogger) *Server {
	return &Server{
		cfg:  cfg,
		log:  logger,
		gens: gens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client, ok := s.handshake(conn)
		if !ok {
			return
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeGenerate {
				s.writeError(conn, "", protocol.ErrProtoBadRequest, "expected GENERATE")
				continue
			}
			var gen protocol.GenerateMsg
			if err := json.Unmarshal(msg, &gen); err != nil || gen.ProtocolVersion != protocol.Version {
				s.writeError(conn, gen.RequestID, protocol.ErrProtoBadRequest, "bad protocol_version")
				continue
			}
			s.handleGenerate(conn, client, gen)
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (client string, ok bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", false
	}
	if hello.ClientName == "" {
		hello.ClientName = "client"
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		FieldWidth:      terrain.Width,
		FieldHeight:     terrain.Height,
		DefaultLevelID:  s.cfg.DefaultLevelID,
		LevelIDs:        s.cfg.IDs(),
	}
	if !s.writeJSON(conn, welcome) {
		return "", false
	}
	return hello.ClientName, true
}

func (s *Server) handleGenerate(conn *websocket.Conn, client string, gen protocol.GenerateMsg) {
	var (
		p       terrain.Params
		levelID string
	)
	switch {
	case gen.LevelID != "":
		spec, ok := s.cfg.Level(gen.LevelID)
		if !ok {
			s.writeError(conn, gen.RequestID, protocol.ErrLevelNotFound, "no such level: "+gen.LevelID)
			return
		}
		p = spec.Params()
		levelID = spec.ID
	case gen.Params != nil:
		if gen.Params.WalkLength < 0 || gen.Params.WalkLength > 0x7fff ||
			gen.Params.TerrainRaise < 0 || gen.Params.TerrainRaise > 0xff {
			s.writeError(conn, gen.RequestID, protocol.ErrBadParams, "params out of range")
			return
		}
		p = terrain.Params{
			Seed:         gen.Params.Seed,
			WalkLength:   int16(gen.Params.WalkLength),
			TerrainRaise: uint8(gen.Params.TerrainRaise),
			StartX:       gen.Params.StartX,
			StartY:       gen.Params.StartY,
			SmoothPasses: gen.Params.SmoothPasses,
		}
	default:
		s.writeError(conn, gen.RequestID, protocol.ErrProtoBadRequest, "need level_id or params")
		return
	}

	start := time.Now()
	f, err := terrain.Generate(p)
	if err != nil {
		s.writeError(conn, gen.RequestID, protocol.ErrBadParams, err.Error())
		return
	}
	took := time.Since(start)

	if s.gens != nil {
		if err := s.gens.WriteGeneration(persistlog.GenerationEntry{
			At:         start.UTC().Format(time.RFC3339Nano),
			LevelID:    levelID,
			RequestID:  gen.RequestID,
			Client:     client,
			Seed:       p.Seed,
			Digest:     f.Digest(),
			DurationMs: took.Milliseconds(),
		}); err != nil {
			s.log.Printf("generation log: %v", err)
		}
	}

	s.writeJSON(conn, protocol.FieldMsg{
		Type:            protocol.TypeField,
		ProtocolVersion: protocol.Version,
		RequestID:       gen.RequestID,
		LevelID:         levelID,
		Width:           terrain.Width,
		Height:          terrain.Height,
		Digest:          f.Digest(),
		Cells:           f.Cells(),
	})
}

func (s *Server) writeError(conn *websocket.Conn, requestID, code, msg string) {
	s.writeJSON(conn, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		RequestID:       requestID,
		Code:            code,
		Message:         msg,
	})
}

func (s *Server) writeJSON(conn *websocket.Conn, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("marshal: %v", err)
		return false
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return false
	}
	return true
}

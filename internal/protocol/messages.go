package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	FieldWidth      int      `json:"field_width"`
	FieldHeight     int      `json:"field_height"`
	DefaultLevelID  string   `json:"default_level_id"`
	LevelIDs        []string `json:"level_ids"`
}

// GENERATE (client -> server). Either LevelID names a configured record or
// Params supplies one inline; LevelID wins when both are present.
type GenerateMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	RequestID       string     `json:"request_id,omitempty"`
	LevelID         string     `json:"level_id,omitempty"`
	Params          *ParamsMsg `json:"params,omitempty"`
}

type ParamsMsg struct {
	Seed         uint32 `json:"seed"`
	WalkLength   int    `json:"walk_length"`
	TerrainRaise int    `json:"terrain_raise"`
	StartX       int    `json:"start_x"`
	StartY       int    `json:"start_y"`
	SmoothPasses int    `json:"smooth_passes"`
}

// FIELD (server -> client). Cells is the raw row-major grid; encoding/json
// renders it as base64.
type FieldMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	LevelID         string `json:"level_id,omitempty"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Digest          string `json:"digest"`
	Cells           []byte `json:"cells"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

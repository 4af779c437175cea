package model

type EncodeResponse struct {
	Tokens   []string      `json:"tokens"`
	Metadata *MidiMetadata `json:"metadata,omitempty"`
}

type DecodeRequest struct {
	Tokens []string `json:"tokens"`
	BPM    float64  `json:"bpm,omitempty"`
}

type MidiMetadata struct {
	Artist  string `json:"artist"`
	Release string `json:"release"`
	Title   string `json:"title"`
	Year    uint   `json:"year,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

package middleware

import "uniquehttpd/internal/version"

type ServerFingerprint struct{}

func NewServerFingerprint() *ServerFingerprint {
	return &ServerFingerprint{}
}

func (h *ServerFingerprint) HandleResponse(headers HeaderSet) error {
	headers.Add("Server: " + version.ServerToken())
	return nil
}

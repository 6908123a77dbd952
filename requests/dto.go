// Package requests unmarshals node seed definitions into core create
// request types, applying defaults in the unmarshaling layer.
package requests

import (
	"github.com/brettbedarf/memfs"
)

// NodeRequestDTO is the JSON representation of [memfs.NodeCreateRequest]
type NodeRequestDTO struct {
	Path  string                      `json:"path"`
	Type  memfs.NodeCreateRequestType `json:"type"`
	UUID  *string                     `json:"uuid,omitempty"`  // Optional UUID to enable linking at request time
	Attrs []string                    `json:"attrs,omitempty"` // Attribute flag names
}

// FileRequestDTO is the JSON representation of [memfs.FileCreateRequest]
type FileRequestDTO struct {
	NodeRequestDTO
	Content *string `json:"content,omitempty"` // Initial content; empty file when absent
}

// DirRequestDTO is the JSON representation of [memfs.DirCreateRequest]
type DirRequestDTO struct {
	NodeRequestDTO
}

package api

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/cartsave/pkg/archive"
	"github.com/ssargent/cartsave/pkg/save"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RepairResult is returned in headers by the repair endpoint and in JSON
// when the caller asks for it with ?format=json.
type RepairResult struct {
	Format   string         `json:"format"`
	Repaired []save.Failure `json:"repaired"`
	BackupID string         `json:"backup_id,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port          int
	Bind          string
	APIKey        string
	MaxImageSize  int64
	Save          save.Options
	BackupOnWrite bool
}

// IArchive is the subset of the backup archive the handlers use.
type IArchive interface {
	Put(image []byte, meta archive.Meta) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) ([]byte, error)
	Meta(id ksuid.KSUID) (archive.Meta, error)
	List() ([]archive.Meta, error)
	Delete(id ksuid.KSUID) error
}

var _ IArchive = (*archive.Archive)(nil)

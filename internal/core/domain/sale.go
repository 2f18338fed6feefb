package domain

import (
	"errors"
	"fmt"
	"time"
)

// Visibility restricts who may read a sale record.
type Visibility string

const (
	VisibilityPublic Visibility = "public"
	VisibilityAdmin  Visibility = "admin"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParse             = errors.New("file could not be parsed")
)

// VisibilityForRole returns the visibility tag applied to rows ingested by a
// caller with the given role. Anonymous callers pass an empty role.
func VisibilityForRole(role string) Visibility {
	if role == RoleAdmin {
		return VisibilityAdmin
	}
	return VisibilityPublic
}

// Sale is a single normalized sales transaction. Visibility is fixed at
// ingestion time and never mutated afterwards.
type Sale struct {
	OrderID    string     `json:"order_id" bson:"order_id"`
	Product    string     `json:"product" bson:"product"`
	Category   string     `json:"category" bson:"category"`
	Amount     float64    `json:"amount" bson:"amount"`
	Profit     float64    `json:"profit" bson:"profit"`
	Date       time.Time  `json:"date" bson:"date"`
	Region     string     `json:"region" bson:"region"`
	Visibility Visibility `json:"visibility" bson:"visibility"`
}

// RowError records a single skipped input row. Skips are non-fatal: the rest
// of the upload proceeds and the collected errors are returned to the caller.
type RowError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Index, e.Reason)
}

// FileMetadata describes one processed upload.
type FileMetadata struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	StoredPath string    `json:"stored_path"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	Rows       int       `json:"rows"`
	Skipped    int       `json:"skipped"`
}

package models

import "time"

// Attachment upload states.
const (
	UploadStatusPending  = "pending"
	UploadStatusUploaded = "uploaded"
)

// Attachment is an order document (invoice, delivery note) stored in the
// object store. The row only keeps metadata; the payload lives under
// StorageKey in the configured bucket.
type Attachment struct {
	ID           string
	OrderID      string
	FileName     string
	StorageKey   string
	UploadStatus string
	CreatedAt    time.Time
}

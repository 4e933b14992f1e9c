package domain

import "time"

type ExportKind string

const (
	ExportSpreadsheet ExportKind = "spreadsheet"
	ExportPDF         ExportKind = "pdf"
	ExportPrint       ExportKind = "print"
)

// ExportRecord is one journal row per produced artifact. Artifacts are
// write-once; the journal never updates a row.
type ExportRecord struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Kind      ExportKind `json:"kind" gorm:"type:varchar(16);not null;index"`
	FileName  string     `json:"fileName" gorm:"type:varchar(128);not null"`
	Rows      int        `json:"rows" gorm:"not null"`
	Revenue   string     `json:"revenue" gorm:"type:varchar(32);not null"`
	SessionID string     `json:"sessionId" gorm:"type:varchar(64);index"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}

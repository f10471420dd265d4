package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Collection names shared by the admin UI and the document store
const (
	CollectionProducts    = "Products"
	CollectionEmployees   = "Employees"
	CollectionAdmins      = "admins"
	CollectionCredentials = "Credentials"
)

// Document is a schemaless record stored under (collection, key).
// Data holds the JSON field map the admin UI reads and writes.
type Document struct {
	Collection string         `gorm:"type:varchar(100);primaryKey" json:"collection"`
	Key        string         `gorm:"column:doc_key;type:varchar(255);primaryKey" json:"key"`
	Data       datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt  time.Time      `gorm:"not null;index:idx_documents_created_at" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "documents"
}

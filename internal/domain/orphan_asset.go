package domain

// OrphanAsset records an uploaded object whose record write failed.
// The cleanup job deletes the object and then this row.
type OrphanAsset struct {
	BaseModel
	RecordType string `gorm:"type:varchar(50);not null;index:idx_orphan_assets_record_type" json:"recordType"`
	ObjectKey  string `gorm:"type:text;not null;uniqueIndex:uq_orphan_assets_object_key" json:"objectKey"`
	Reason     string `gorm:"type:text" json:"reason"`
}

// TableName specifies the table name for OrphanAsset
func (OrphanAsset) TableName() string {
	return "orphan_assets"
}

// Package model holds the GORM table mappings for the SQL credential store.
package model

import (
	"gorm.io/datatypes"
)

// CredentialModel mirrors the 'credentials' table. Position keeps the record
// order of the legacy flat document.
type CredentialModel struct {
	Position     int                         `gorm:"primaryKey;autoIncrement:false"`
	Username     string                      `gorm:"type:varchar(255);not null;uniqueIndex:idx_credentials_username"`
	PasswordHash string                      `gorm:"column:password;type:varchar(255);not null"`
	Access       datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	IsActive     bool                        `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "credentials"
}

package postgres

import "time"

// UserModel é o model GORM para usuários
type UserModel struct {
	ID                   string `gorm:"type:uuid;primaryKey"`
	Username             string `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email                string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash         string `gorm:"type:varchar(255);not null"`
	FullName             string `gorm:"type:varchar(200);not null"`
	Phone                string `gorm:"type:varchar(20);not null"`
	Merhav               string `gorm:"type:varchar(50);not null;index"`
	Role                 string `gorm:"type:varchar(50);not null;index;check:chk_users_role,role IN ('user','pending_volunteer','verified_volunteer','admin')"`
	VolunteerDeclaration bool   `gorm:"not null"`
	ApprovedAt           *time.Time
	ApprovedBy           *string   `gorm:"type:uuid"`
	CreatedAt            time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// ListingModel é o model GORM para anúncios; apagar o dono apaga os anúncios
type ListingModel struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	OwnerID         string     `gorm:"type:uuid;not null;index"`
	Owner           *UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title           string     `gorm:"type:varchar(100);not null"`
	Description     *string    `gorm:"type:text"`
	Category        string     `gorm:"type:varchar(50);not null;index"`
	TransactionType string     `gorm:"type:varchar(50);not null;index"`
	Size            *string    `gorm:"type:varchar(50)"`
	Merhav          string     `gorm:"type:varchar(50);not null;index"`
	Image1          *string    `gorm:"type:varchar(500)"`
	Image2          *string    `gorm:"type:varchar(500)"`
	VolunteerOnly   bool       `gorm:"not null;index"`
	IsAvailable     bool       `gorm:"not null;index"`
	Views           int64      `gorm:"not null"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (ListingModel) TableName() string {
	return "listings"
}

// AuditLogModel é o model GORM do log de auditoria.
// As referências a usuários são fracas: ON DELETE SET NULL.
type AuditLogModel struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	AdminID      *string        `gorm:"type:uuid;index"`
	Admin        *UserModel     `gorm:"foreignKey:AdminID;constraint:OnDelete:SET NULL"`
	Action       string         `gorm:"type:varchar(50);not null;index"`
	TargetUserID *string        `gorm:"type:uuid;index"`
	TargetUser   *UserModel     `gorm:"foreignKey:TargetUserID;constraint:OnDelete:SET NULL"`
	Details      map[string]any `gorm:"serializer:json;type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index"`
}

func (AuditLogModel) TableName() string {
	return "audit_log"
}

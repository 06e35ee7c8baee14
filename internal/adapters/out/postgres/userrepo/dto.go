// Package userrepo persists user aggregates with GORM.
package userrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO is the row of the users table. The phone number is the login name and unique.
type UserDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Phone        string    `gorm:"type:varchar(11);not null;uniqueIndex"`
	Location     string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	s := u.Snapshot()
	return UserDTO{
		ID:           s.ID.Google(),
		Name:         s.Name,
		Phone:        s.Phone,
		Location:     s.Location,
		PasswordHash: s.PasswordHash,
		Role:         string(s.Role),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.FromGoogleUUID(dto.ID)
	if err != nil {
		return nil, err
	}

	return user.Restore(user.Snapshot{
		ID:           id,
		Name:         dto.Name,
		Phone:        dto.Phone,
		Location:     dto.Location,
		PasswordHash: dto.PasswordHash,
		Role:         user.Role(dto.Role),
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	})
}

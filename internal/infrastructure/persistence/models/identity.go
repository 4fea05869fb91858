package models

import (
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/shared"
)

// ProfileModel is the persistence model for the Profile aggregate.
type ProfileModel struct {
	BaseModel
	DisplayName         string `gorm:"type:varchar(100);not null"`
	Email               string `gorm:"type:varchar(200);not null;uniqueIndex"`
	AvatarURL           string `gorm:"type:varchar(500)"`
	NotificationEnabled bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
		},
		DisplayName:         m.DisplayName,
		Email:               m.Email,
		AvatarURL:           m.AvatarURL,
		NotificationEnabled: m.NotificationEnabled,
	}
}

// ProfileModelFromDomain builds a persistence model from a domain Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{
		DisplayName:         p.DisplayName,
		Email:               p.Email,
		AvatarURL:           p.AvatarURL,
		NotificationEnabled: p.NotificationEnabled,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// AccessRequestModel is the persistence model for access requests.
type AccessRequestModel struct {
	BaseModel
	Email  string `gorm:"type:varchar(200);not null;index"`
	Name   string `gorm:"type:varchar(100);not null"`
	Reason string `gorm:"type:text"`
	Status string `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (AccessRequestModel) TableName() string {
	return "access_requests"
}

// ToDomain converts the persistence model to a domain AccessRequest
func (m *AccessRequestModel) ToDomain() *identity.AccessRequest {
	return &identity.AccessRequest{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		Name:       m.Name,
		Reason:     m.Reason,
		Status:     identity.AccessRequestStatus(m.Status),
	}
}

// AccessRequestModelFromDomain builds a persistence model from a domain AccessRequest
func AccessRequestModelFromDomain(r *identity.AccessRequest) *AccessRequestModel {
	m := &AccessRequestModel{
		Email:  r.Email,
		Name:   r.Name,
		Reason: r.Reason,
		Status: string(r.Status),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/affiliate"
)

// AffiliateModel is the persistence model for the Affiliate entity.
type AffiliateModel struct {
	BaseModel
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	Code           string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	Email          string           `gorm:"type:varchar(255);not null"`
	Status         affiliate.Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CommissionRate decimal.Decimal  `gorm:"type:decimal(8,4);not null"`
	BusinessName   string           `gorm:"type:varchar(200)"`
	WebsiteURL     string           `gorm:"type:varchar(500)"`
	Description    string           `gorm:"type:text"`
	ApprovedAt     *time.Time
	LastActiveAt   *time.Time
}

// TableName returns the table name for GORM
func (AffiliateModel) TableName() string {
	return "affiliates"
}

// ToDomain converts the persistence model to a domain Affiliate entity.
func (m *AffiliateModel) ToDomain() *affiliate.Affiliate {
	return &affiliate.Affiliate{
		BaseEntity:     m.BaseModel.ToDomain(),
		UserID:         m.UserID,
		Code:           m.Code,
		Email:          m.Email,
		Status:         m.Status,
		CommissionRate: m.CommissionRate,
		BusinessName:   m.BusinessName,
		WebsiteURL:     m.WebsiteURL,
		Description:    m.Description,
		ApprovedAt:     m.ApprovedAt,
		LastActiveAt:   m.LastActiveAt,
	}
}

// FromDomain populates the persistence model from a domain Affiliate entity.
func (m *AffiliateModel) FromDomain(a *affiliate.Affiliate) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.UserID = a.UserID
	m.Code = a.Code
	m.Email = a.Email
	m.Status = a.Status
	m.CommissionRate = a.CommissionRate
	m.BusinessName = a.BusinessName
	m.WebsiteURL = a.WebsiteURL
	m.Description = a.Description
	m.ApprovedAt = a.ApprovedAt
	m.LastActiveAt = a.LastActiveAt
}

// AffiliateModelFromDomain creates a new persistence model from a domain Affiliate.
func AffiliateModelFromDomain(a *affiliate.Affiliate) *AffiliateModel {
	m := &AffiliateModel{}
	m.FromDomain(a)
	return m
}

// LinkModel is the persistence model for the Link entity.
type LinkModel struct {
	BaseModel
	AffiliateID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	LinkType         affiliate.LinkType `gorm:"type:varchar(20);not null"`
	TargetURL        string             `gorm:"type:varchar(1000);not null"`
	CampaignName     string             `gorm:"type:varchar(200)"`
	ClickCount       int64              `gorm:"not null;default:0"`
	ConversionCount  int64              `gorm:"not null;default:0"`
	RevenueGenerated decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive         bool               `gorm:"not null;default:true"`
	ExpiresAt        *time.Time
	LastClickedAt    *time.Time
}

// TableName returns the table name for GORM
func (LinkModel) TableName() string {
	return "affiliate_links"
}

// ToDomain converts the persistence model to a domain Link entity.
func (m *LinkModel) ToDomain() *affiliate.Link {
	return &affiliate.Link{
		BaseEntity:       m.BaseModel.ToDomain(),
		AffiliateID:      m.AffiliateID,
		LinkType:         m.LinkType,
		TargetURL:        m.TargetURL,
		CampaignName:     m.CampaignName,
		ClickCount:       m.ClickCount,
		ConversionCount:  m.ConversionCount,
		RevenueGenerated: m.RevenueGenerated,
		IsActive:         m.IsActive,
		ExpiresAt:        m.ExpiresAt,
		LastClickedAt:    m.LastClickedAt,
	}
}

// FromDomain populates the persistence model from a domain Link entity.
func (m *LinkModel) FromDomain(l *affiliate.Link) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.AffiliateID = l.AffiliateID
	m.LinkType = l.LinkType
	m.TargetURL = l.TargetURL
	m.CampaignName = l.CampaignName
	m.ClickCount = l.ClickCount
	m.ConversionCount = l.ConversionCount
	m.RevenueGenerated = l.RevenueGenerated
	m.IsActive = l.IsActive
	m.ExpiresAt = l.ExpiresAt
	m.LastClickedAt = l.LastClickedAt
}

// LinkModelFromDomain creates a new persistence model from a domain Link.
func LinkModelFromDomain(l *affiliate.Link) *LinkModel {
	m := &LinkModel{}
	m.FromDomain(l)
	return m
}

// ClickModel is the persistence model for the Click entity. The converted
// flag carries a partial index-friendly shape: conversion flips it through
// a conditional UPDATE keyed on converted = false.
type ClickModel struct {
	BaseModel
	AffiliateID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	LinkID       *uuid.UUID `gorm:"type:uuid;index"`
	SessionToken uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	IPAddress    string     `gorm:"type:varchar(45);index"`
	UserAgent    string     `gorm:"type:varchar(500)"`
	Referrer     string     `gorm:"type:varchar(1000)"`
	LandingPage  string     `gorm:"type:varchar(1000)"`
	Campaign     string     `gorm:"type:varchar(200)"`
	Converted    bool       `gorm:"not null;default:false;index"`
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	ConvertedAt  *time.Time
}

// TableName returns the table name for GORM
func (ClickModel) TableName() string {
	return "affiliate_clicks"
}

// ToDomain converts the persistence model to a domain Click entity.
func (m *ClickModel) ToDomain() *affiliate.Click {
	return &affiliate.Click{
		BaseEntity:   m.BaseModel.ToDomain(),
		AffiliateID:  m.AffiliateID,
		LinkID:       m.LinkID,
		SessionToken: m.SessionToken,
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		Referrer:     m.Referrer,
		LandingPage:  m.LandingPage,
		Campaign:     m.Campaign,
		Converted:    m.Converted,
		OrderID:      m.OrderID,
		ConvertedAt:  m.ConvertedAt,
	}
}

// FromDomain populates the persistence model from a domain Click entity.
func (m *ClickModel) FromDomain(c *affiliate.Click) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.AffiliateID = c.AffiliateID
	m.LinkID = c.LinkID
	m.SessionToken = c.SessionToken
	m.IPAddress = c.IPAddress
	m.UserAgent = c.UserAgent
	m.Referrer = c.Referrer
	m.LandingPage = c.LandingPage
	m.Campaign = c.Campaign
	m.Converted = c.Converted
	m.OrderID = c.OrderID
	m.ConvertedAt = c.ConvertedAt
}

// ClickModelFromDomain creates a new persistence model from a domain Click.
func ClickModelFromDomain(c *affiliate.Click) *ClickModel {
	m := &ClickModel{}
	m.FromDomain(c)
	return m
}

// CommissionModel is the persistence model for the Commission ledger row.
type CommissionModel struct {
	BaseModel
	AffiliateID      uuid.UUID                  `gorm:"type:uuid;not null;index"`
	OrderID          uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ClickID          *uuid.UUID                 `gorm:"type:uuid;index"`
	OrderTotal       decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	CommissionRate   decimal.Decimal            `gorm:"type:decimal(8,4);not null"`
	CommissionAmount decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Status           affiliate.CommissionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt           *time.Time
	PaymentMethod    string     `gorm:"type:varchar(50)"`
	PaymentReference string     `gorm:"type:varchar(100)"`
	PaymentNotes     string     `gorm:"type:text"`
	CreatedBy        *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "affiliate_commissions"
}

// ToDomain converts the persistence model to a domain Commission entity.
func (m *CommissionModel) ToDomain() *affiliate.Commission {
	return &affiliate.Commission{
		BaseEntity:       m.BaseModel.ToDomain(),
		AffiliateID:      m.AffiliateID,
		OrderID:          m.OrderID,
		ClickID:          m.ClickID,
		OrderTotal:       m.OrderTotal,
		CommissionRate:   m.CommissionRate,
		CommissionAmount: m.CommissionAmount,
		Status:           m.Status,
		PaidAt:           m.PaidAt,
		PaymentMethod:    m.PaymentMethod,
		PaymentReference: m.PaymentReference,
		PaymentNotes:     m.PaymentNotes,
		CreatedBy:        m.CreatedBy,
		UpdatedBy:        m.UpdatedBy,
	}
}

// FromDomain populates the persistence model from a domain Commission entity.
func (m *CommissionModel) FromDomain(c *affiliate.Commission) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.AffiliateID = c.AffiliateID
	m.OrderID = c.OrderID
	m.ClickID = c.ClickID
	m.OrderTotal = c.OrderTotal
	m.CommissionRate = c.CommissionRate
	m.CommissionAmount = c.CommissionAmount
	m.Status = c.Status
	m.PaidAt = c.PaidAt
	m.PaymentMethod = c.PaymentMethod
	m.PaymentReference = c.PaymentReference
	m.PaymentNotes = c.PaymentNotes
	m.CreatedBy = c.CreatedBy
	m.UpdatedBy = c.UpdatedBy
}

// CommissionModelFromDomain creates a new persistence model from a domain Commission.
func CommissionModelFromDomain(c *affiliate.Commission) *CommissionModel {
	m := &CommissionModel{}
	m.FromDomain(c)
	return m
}

// PayoutModel is the persistence model for the Payout batch.
type PayoutModel struct {
	BaseModel
	AffiliateID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	TotalAmount      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	CommissionCount  int                    `gorm:"not null"`
	PayoutMethod     string                 `gorm:"type:varchar(50);not null"`
	Status           affiliate.PayoutStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ProcessedAt      *time.Time
	ProcessedBy      *uuid.UUID `gorm:"type:uuid"`
	PaymentReference string     `gorm:"type:varchar(100)"`
	Notes            string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "affiliate_payouts"
}

// ToDomain converts the persistence model to a domain Payout entity.
func (m *PayoutModel) ToDomain() *affiliate.Payout {
	return &affiliate.Payout{
		BaseEntity:       m.BaseModel.ToDomain(),
		AffiliateID:      m.AffiliateID,
		TotalAmount:      m.TotalAmount,
		CommissionCount:  m.CommissionCount,
		PayoutMethod:     m.PayoutMethod,
		Status:           m.Status,
		ProcessedAt:      m.ProcessedAt,
		ProcessedBy:      m.ProcessedBy,
		PaymentReference: m.PaymentReference,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payout entity.
func (m *PayoutModel) FromDomain(p *affiliate.Payout) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.AffiliateID = p.AffiliateID
	m.TotalAmount = p.TotalAmount
	m.CommissionCount = p.CommissionCount
	m.PayoutMethod = p.PayoutMethod
	m.Status = p.Status
	m.ProcessedAt = p.ProcessedAt
	m.ProcessedBy = p.ProcessedBy
	m.PaymentReference = p.PaymentReference
	m.Notes = p.Notes
}

// PayoutModelFromDomain creates a new persistence model from a domain Payout.
func PayoutModelFromDomain(p *affiliate.Payout) *PayoutModel {
	m := &PayoutModel{}
	m.FromDomain(p)
	return m
}

// PayoutCommissionModel links payout batches to their member commissions.
type PayoutCommissionModel struct {
	PayoutID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CommissionID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (PayoutCommissionModel) TableName() string {
	return "affiliate_payout_commissions"
}

// FraudLogModel is the persistence model for the append-only FraudLog.
// Reasons are stored as a JSON array in a text column.
type FraudLogModel struct {
	BaseModel
	AffiliateID uuid.UUID                `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID                `gorm:"type:uuid;index"`
	RiskScore   int                      `gorm:"not null"`
	ReasonsJSON string                   `gorm:"column:reasons;type:text;not null;default:'[]'"`
	Status      affiliate.FraudLogStatus `gorm:"type:varchar(20);not null;default:'FLAGGED'"`
}

// TableName returns the table name for GORM
func (FraudLogModel) TableName() string {
	return "affiliate_fraud_logs"
}

// ToDomain converts the persistence model to a domain FraudLog entity.
func (m *FraudLogModel) ToDomain() *affiliate.FraudLog {
	var reasons []string
	if m.ReasonsJSON != "" {
		// A malformed row degrades to no reasons rather than failing reads.
		_ = json.Unmarshal([]byte(m.ReasonsJSON), &reasons)
	}
	return &affiliate.FraudLog{
		BaseEntity:  m.BaseModel.ToDomain(),
		AffiliateID: m.AffiliateID,
		OrderID:     m.OrderID,
		RiskScore:   m.RiskScore,
		Reasons:     reasons,
		Status:      m.Status,
	}
}

// FromDomain populates the persistence model from a domain FraudLog entity.
func (m *FraudLogModel) FromDomain(l *affiliate.FraudLog) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.AffiliateID = l.AffiliateID
	m.OrderID = l.OrderID
	m.RiskScore = l.RiskScore
	m.Status = l.Status
	m.ReasonsJSON = "[]"
	if len(l.Reasons) > 0 {
		if data, err := json.Marshal(l.Reasons); err == nil {
			m.ReasonsJSON = string(data)
		}
	}
}

// FraudLogModelFromDomain creates a new persistence model from a domain FraudLog.
func FraudLogModelFromDomain(l *affiliate.FraudLog) *FraudLogModel {
	m := &FraudLogModel{}
	m.FromDomain(l)
	return m
}

package models

import "time"

// SubscriptionActivePremium is the profile status that grants derived artifacts.
const SubscriptionActivePremium = "active_premium"

// ReportData - полные данные анализа, хранятся как непрозрачный blob
type ReportData struct {
	AllFindings          []Finding      `json:"allFindings"`
	ReportText           *string        `json:"reportText"`
	AttackVectors        []AttackVector `json:"attackVectors,omitempty"`
	RemediationPlaybooks []Playbook     `json:"remediationPlaybooks,omitempty"`
}

// AnalysisRecord - историческая запись анализа пользователя
type AnalysisRecord struct {
	ID                      string      `json:"id"`
	UserID                  string      `json:"userId"`
	CreatedAt               time.Time   `json:"createdAt"`
	AnalysisType            Source      `json:"analysisType"`
	TargetDescription       string      `json:"targetDescription"`
	OverallRiskAssessment   Severity    `json:"overallRiskAssessment"`
	VulnerableFindingsCount int         `json:"vulnerableFindingsCount"`
	ReportSummary           string      `json:"reportSummary,omitempty"`
	FullReportData          *ReportData `json:"fullReportData,omitempty"`
	BlobKey                 string      `json:"blobKey,omitempty"`
}

// UserProfile carries only what entitlement needs.
type UserProfile struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

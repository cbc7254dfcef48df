package graph

import (
	"time"
)

// AssignedLicense is one license assignment within a user record.
type AssignedLicense struct {
	SkuID string `json:"skuId"`
}

// UserRecord is one user as returned by the /users endpoint.
type UserRecord struct {
	ID                string            `json:"id"`
	DisplayName       string            `json:"displayName"`
	Mail              string            `json:"mail"`
	UserPrincipalName string            `json:"userPrincipalName"`
	JobTitle          string            `json:"jobTitle"`
	Department        string            `json:"department"`
	OfficeLocation    string            `json:"officeLocation"`
	AccountEnabled    bool              `json:"accountEnabled"`
	CreatedDateTime   *time.Time        `json:"createdDateTime"`
	AssignedLicenses  []AssignedLicense `json:"assignedLicenses"`
}

// PrepaidUnits is the unit breakdown of a subscribed SKU.
type PrepaidUnits struct {
	Enabled   int `json:"enabled"`
	Suspended int `json:"suspended"`
	Warning   int `json:"warning"`
}

// SkuRecord is one subscription as returned by the /subscribedSkus endpoint.
type SkuRecord struct {
	SkuID            string       `json:"skuId"`
	SkuPartNumber    string       `json:"skuPartNumber"`
	ConsumedUnits    int          `json:"consumedUnits"`
	PrepaidUnits     PrepaidUnits `json:"prepaidUnits"`
	CapabilityStatus string       `json:"capabilityStatus"`
	AppliesTo        string       `json:"appliesTo"`
}

// MailboxUsageRow is one parsed row of the mailbox usage detail report.
type MailboxUsageRow struct {
	ReportRefreshDate             string
	UserPrincipalName             string
	DisplayName                   string
	IsDeleted                     bool
	DeletedDate                   string
	CreatedDate                   string
	LastActivityDate              string
	ItemCount                     int64
	StorageUsedBytes              int64
	IssueWarningQuotaBytes        int64
	ProhibitSendQuotaBytes        int64
	ProhibitSendReceiveQuotaBytes int64
	ReportPeriod                  string
}

// OneDriveUsageRow is one parsed row of the OneDrive usage account detail
// report.
type OneDriveUsageRow struct {
	ReportRefreshDate     string
	SiteURL               string
	OwnerDisplayName      string
	OwnerPrincipalName    string
	IsDeleted             bool
	LastActivityDate      string
	FileCount             int64
	ActiveFileCount       int64
	StorageUsedBytes      int64
	StorageAllocatedBytes int64
	ReportPeriod          string
}

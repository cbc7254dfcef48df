package graph

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Report CSV column names as produced by the Graph reports endpoints.
const (
	colReportRefreshDate   = "Report Refresh Date"
	colUserPrincipalName   = "User Principal Name"
	colDisplayName         = "Display Name"
	colIsDeleted           = "Is Deleted"
	colDeletedDate         = "Deleted Date"
	colCreatedDate         = "Created Date"
	colLastActivityDate    = "Last Activity Date"
	colItemCount           = "Item Count"
	colStorageUsed         = "Storage Used (Byte)"
	colIssueWarningQuota   = "Issue Warning Quota (Byte)"
	colProhibitSendQuota   = "Prohibit Send Quota (Byte)"
	colProhibitSendReceive = "Prohibit Send/Receive Quota (Byte)"
	colReportPeriod        = "Report Period"
	colSiteURL             = "Site URL"
	colOwnerDisplayName    = "Owner Display Name"
	colOwnerPrincipalName  = "Owner Principal Name"
	colFileCount           = "File Count"
	colActiveFileCount     = "Active File Count"
	colStorageAllocated    = "Storage Allocated (Byte)"
)

// Report endpoints use the fixed 7-day reporting window.
const (
	mailboxUsageReportEndpoint  = "/reports/getMailboxUsageDetail(period='D7')"
	onedriveUsageReportEndpoint = "/reports/getOneDriveUsageAccountDetail(period='D7')"
)

// FetchMailboxUsageReport retrieves and parses the 7-day mailbox usage
// report. A permission-denied response degrades to an empty result because
// the reports permission is commonly and legitimately absent.
func (c *Client) FetchMailboxUsageReport(ctx context.Context) ([]MailboxUsageRow, error) {
	records, err := c.fetchReport(ctx, mailboxUsageReportEndpoint)
	if err != nil || records == nil {
		return nil, err
	}

	rows := make([]MailboxUsageRow, 0, len(records))

	for _, rec := range records {
		rows = append(rows, MailboxUsageRow{
			ReportRefreshDate:             rec[colReportRefreshDate],
			UserPrincipalName:             rec[colUserPrincipalName],
			DisplayName:                   rec[colDisplayName],
			IsDeleted:                     parseReportBool(rec[colIsDeleted]),
			DeletedDate:                   rec[colDeletedDate],
			CreatedDate:                   rec[colCreatedDate],
			LastActivityDate:              rec[colLastActivityDate],
			ItemCount:                     parseReportInt(rec[colItemCount]),
			StorageUsedBytes:              parseReportInt(rec[colStorageUsed]),
			IssueWarningQuotaBytes:        parseReportInt(rec[colIssueWarningQuota]),
			ProhibitSendQuotaBytes:        parseReportInt(rec[colProhibitSendQuota]),
			ProhibitSendReceiveQuotaBytes: parseReportInt(rec[colProhibitSendReceive]),
			ReportPeriod:                  reportPeriodOrDefault(rec[colReportPeriod]),
		})
	}

	return rows, nil
}

// FetchOneDriveUsageReport retrieves and parses the 7-day OneDrive usage
// report with the same degrade policy as the mailbox report.
func (c *Client) FetchOneDriveUsageReport(ctx context.Context) ([]OneDriveUsageRow, error) {
	records, err := c.fetchReport(ctx, onedriveUsageReportEndpoint)
	if err != nil || records == nil {
		return nil, err
	}

	rows := make([]OneDriveUsageRow, 0, len(records))

	for _, rec := range records {
		rows = append(rows, OneDriveUsageRow{
			ReportRefreshDate:     rec[colReportRefreshDate],
			SiteURL:               rec[colSiteURL],
			OwnerDisplayName:      rec[colOwnerDisplayName],
			OwnerPrincipalName:    rec[colOwnerPrincipalName],
			IsDeleted:             parseReportBool(rec[colIsDeleted]),
			LastActivityDate:      rec[colLastActivityDate],
			FileCount:             parseReportInt(rec[colFileCount]),
			ActiveFileCount:       parseReportInt(rec[colActiveFileCount]),
			StorageUsedBytes:      parseReportInt(rec[colStorageUsed]),
			StorageAllocatedBytes: parseReportInt(rec[colStorageAllocated]),
			ReportPeriod:          reportPeriodOrDefault(rec[colReportPeriod]),
		})
	}

	return rows, nil
}

// fetchReport downloads one report endpoint and parses the CSV body into
// column-keyed records. A 403 returns (nil, nil): these endpoints need
// elevated report permissions and their absence must not fail the sync.
func (c *Client) fetchReport(ctx context.Context, endpoint string) ([]map[string]string, error) {
	requestURL := c.baseURL + endpoint

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusForbidden {
		log.Warn().Str("endpoint", endpoint).Msg("report endpoint not available, skipping")
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Endpoint:   requestURL,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp),
		}
	}

	records, err := parseReportCSV(resp.Body)
	if err != nil {
		return nil, &FetchError{Endpoint: requestURL, Err: err}
	}

	return records, nil
}

// parseReportCSV parses an RFC4180 report body into one map per data row,
// keyed by the header row. Rows whose field count does not match the header
// are dropped.
func parseReportCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(lines) < 2 {
		return []map[string]string{}, nil
	}

	header := lines[0]
	if len(header) > 0 {
		// the reports endpoints prefix the header with a BOM
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	records := make([]map[string]string, 0, len(lines)-1)

	for _, line := range lines[1:] {
		if len(line) != len(header) {
			continue
		}

		rec := make(map[string]string, len(header))
		for i, name := range header {
			rec[strings.TrimSpace(name)] = strings.TrimSpace(line[i])
		}

		records = append(records, rec)
	}

	return records, nil
}

// parseReportInt converts a report numeric field, clamping parse failures
// and negative source values to zero.
func parseReportInt(value string) int64 {
	if value == "" {
		return 0
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

func parseReportBool(value string) bool {
	return strings.EqualFold(value, "true")
}

func reportPeriodOrDefault(value string) string {
	if value == "" {
		return "7"
	}

	return value
}

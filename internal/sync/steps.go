package sync

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/license"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/usage"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/user"
	"github.com/go-m365-admin/go-m365-admin/internal/db/controller/userlicense"
	"github.com/go-m365-admin/go-m365-admin/internal/db/models"
)

const reportDateLayout = "2006-01-02"

// syncUsers upserts every tenant user keyed by graph_user_id. A failed
// upsert skips the record; only a failed fetch fails the step.
func (s *Service) syncUsers(ctx context.Context) (int, error) {
	records, err := s.client.FetchUsers(ctx)
	if err != nil {
		return 0, err
	}

	syncedAt := s.now()
	count := 0

	for _, remote := range records {
		rec := user.Record{
			GraphUserID:       remote.ID,
			DisplayName:       remote.DisplayName,
			Email:             remote.Mail,
			UserPrincipalName: remote.UserPrincipalName,
			JobTitle:          remote.JobTitle,
			Department:        remote.Department,
			OfficeLocation:    remote.OfficeLocation,
			AccountEnabled:    remote.AccountEnabled,
			CreatedDateTime:   remote.CreatedDateTime,
		}

		if err := user.Upsert(s.db, rec, syncedAt); err != nil {
			log.Error().Err(err).Str("graph_user_id", remote.ID).Msg("failed to upsert user")

			continue
		}

		count++
	}

	return count, nil
}

// syncLicenses upserts every subscribed SKU keyed by sku_id. The display
// name is resolved through the SKU name resolver at write time.
func (s *Service) syncLicenses(ctx context.Context) (int, error) {
	records, err := s.client.FetchSubscribedSkus(ctx)
	if err != nil {
		return 0, err
	}

	syncedAt := s.now()
	count := 0

	for _, remote := range records {
		rec := license.Record{
			SkuID:            remote.SkuID,
			SkuPartNumber:    remote.SkuPartNumber,
			DisplayName:      s.resolveName(remote.SkuPartNumber),
			TotalUnits:       remote.PrepaidUnits.Enabled,
			ConsumedUnits:    remote.ConsumedUnits,
			CapabilityStatus: remote.CapabilityStatus,
			AppliesTo:        remote.AppliesTo,
		}

		if err := license.Upsert(s.db, rec, syncedAt); err != nil {
			log.Error().Err(err).Str("sku_id", remote.SkuID).Msg("failed to upsert license")

			continue
		}

		count++
	}

	return count, nil
}

// syncUserLicenses reconciles license assignments with a full replace per
// user. Users without a local row and assignments for unknown SKUs are
// skipped; only inserted rows count toward the tally.
func (s *Service) syncUserLicenses(ctx context.Context) (int, error) {
	records, err := s.client.FetchUsers(ctx)
	if err != nil {
		return 0, err
	}

	userIDs, err := user.IdentityMap(s.db)
	if err != nil {
		return 0, err
	}

	licenseIDs, err := license.IdentityMap(s.db)
	if err != nil {
		return 0, err
	}

	syncedAt := s.now()
	count := 0

	for _, remote := range records {
		userID, ok := userIDs[remote.ID]
		if !ok {
			log.Debug().Str("graph_user_id", remote.ID).Msg("skipping assignments for unknown user")

			continue
		}

		assignments := make([]userlicense.Assignment, 0, len(remote.AssignedLicenses))

		for _, assigned := range remote.AssignedLicenses {
			licenseID, ok := licenseIDs[assigned.SkuID]
			if !ok {
				log.Debug().Str("sku_id", assigned.SkuID).Msg("skipping assignment for unknown license")

				continue
			}

			assignments = append(assignments, userlicense.Assignment{
				SkuID:     assigned.SkuID,
				LicenseID: licenseID,
			})
		}

		inserted, err := userlicense.ReplaceForUser(s.db, userID, assignments, syncedAt)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Msg("failed to reconcile license assignments")

			continue
		}

		count += inserted
	}

	return count, nil
}

// syncMailbox upserts mailbox usage report rows keyed by
// (user_id, report_date). A permission-denied report degrades to an empty
// row set and the step still succeeds.
func (s *Service) syncMailbox(ctx context.Context) (int, error) {
	rows, err := s.client.FetchMailboxUsageReport(ctx)
	if err != nil {
		return 0, err
	}

	userIDs, err := user.IdentityMap(s.db)
	if err != nil {
		return 0, err
	}

	reportDate := s.now().Format(reportDateLayout)
	count := 0

	for _, row := range rows {
		userID, ok := userIDs[strings.ToLower(row.UserPrincipalName)]
		if !ok {
			log.Debug().Str("user_principal_name", row.UserPrincipalName).
				Msg("skipping mailbox usage row for unknown user")

			continue
		}

		record := models.MailboxUsage{
			UserID:                        userID,
			ReportDate:                    reportDate,
			UserPrincipalName:             row.UserPrincipalName,
			DisplayName:                   row.DisplayName,
			StorageUsedBytes:              row.StorageUsedBytes,
			ItemCount:                     row.ItemCount,
			IssueWarningQuotaBytes:        row.IssueWarningQuotaBytes,
			ProhibitSendQuotaBytes:        row.ProhibitSendQuotaBytes,
			ProhibitSendReceiveQuotaBytes: row.ProhibitSendReceiveQuotaBytes,
			IsDeleted:                     row.IsDeleted,
			DeletedDate:                   row.DeletedDate,
			CreatedDate:                   row.CreatedDate,
			LastActivityDate:              row.LastActivityDate,
			ReportRefreshDate:             row.ReportRefreshDate,
			ReportPeriod:                  row.ReportPeriod,
		}

		if err := usage.UpsertMailbox(s.db, &record); err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Msg("failed to upsert mailbox usage")

			continue
		}

		count++
	}

	return count, nil
}

// syncOneDrive upserts OneDrive usage report rows keyed by
// (user_id, report_date), matching rows to users by owner principal name.
func (s *Service) syncOneDrive(ctx context.Context) (int, error) {
	rows, err := s.client.FetchOneDriveUsageReport(ctx)
	if err != nil {
		return 0, err
	}

	userIDs, err := user.IdentityMap(s.db)
	if err != nil {
		return 0, err
	}

	reportDate := s.now().Format(reportDateLayout)
	count := 0

	for _, row := range rows {
		userID, ok := userIDs[strings.ToLower(row.OwnerPrincipalName)]
		if !ok {
			log.Debug().Str("owner_principal_name", row.OwnerPrincipalName).
				Msg("skipping OneDrive usage row for unknown user")

			continue
		}

		record := models.OneDriveUsage{
			UserID:                userID,
			ReportDate:            reportDate,
			OwnerPrincipalName:    row.OwnerPrincipalName,
			OwnerDisplayName:      row.OwnerDisplayName,
			SiteURL:               row.SiteURL,
			StorageUsedBytes:      row.StorageUsedBytes,
			StorageAllocatedBytes: row.StorageAllocatedBytes,
			FileCount:             row.FileCount,
			ActiveFileCount:       row.ActiveFileCount,
			IsDeleted:             row.IsDeleted,
			LastActivityDate:      row.LastActivityDate,
			ReportRefreshDate:     row.ReportRefreshDate,
			ReportPeriod:          row.ReportPeriod,
		}

		if err := usage.UpsertOneDrive(s.db, &record); err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Msg("failed to upsert OneDrive usage")

			continue
		}

		count++
	}

	return count, nil
}

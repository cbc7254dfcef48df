package graph

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// userSelectFields is the fixed field selection of the users fetch.
const userSelectFields = "id,displayName,mail,userPrincipalName,jobTitle," +
	"department,officeLocation,accountEnabled,createdDateTime,assignedLicenses"

type userPage struct {
	Value    []UserRecord `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

type skuPage struct {
	Value []SkuRecord `json:"value"`
}

// FetchUsers retrieves all users of the tenant, following the server-provided
// next-page cursor until exhausted. The call is all-or-nothing: any failed
// page discards the pages already fetched.
func (c *Client) FetchUsers(ctx context.Context) ([]UserRecord, error) {
	var all []UserRecord

	nextURL := c.baseURL + "/users?$select=" + userSelectFields

	for nextURL != "" {
		resp, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		page, err := decodeUserPage(resp, nextURL)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Value...)
		nextURL = page.NextLink
	}

	log.Debug().Int("user_count", len(all)).Msg("fetched users from Graph API")

	return all, nil
}

func decodeUserPage(resp *http.Response, requestURL string) (*userPage, error) {
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Endpoint:   requestURL,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp),
		}
	}

	var page userPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &FetchError{Endpoint: requestURL, Err: err}
	}

	return &page, nil
}

// FetchSubscribedSkus retrieves the tenant's subscribed SKUs. The endpoint is
// a single page, no cursor following is expected.
func (c *Client) FetchSubscribedSkus(ctx context.Context) ([]SkuRecord, error) {
	requestURL := c.baseURL + "/subscribedSkus"

	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Endpoint:   requestURL,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp),
		}
	}

	var page skuPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &FetchError{Endpoint: requestURL, Err: err}
	}

	log.Debug().Int("sku_count", len(page.Value)).Msg("fetched subscribed SKUs from Graph API")

	return page.Value, nil
}

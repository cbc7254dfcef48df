package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrMissingGraphCredentials is returned when one or more of the graph
	// tenantId, clientId or clientSecret settings is absent.
	ErrMissingGraphCredentials = errors.New("missing Microsoft Graph API credentials")
)

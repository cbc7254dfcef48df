// Package main provides the entry point for the go-m365-admin reporting service.
// It periodically pulls user, license, mailbox and OneDrive usage data from the
// Microsoft Graph API, persists it through gorm into a relational store, and
// serves it back through a JSON API built on the Fiber framework. Sync runs can
// be triggered over HTTP, from the CLI, or on a configurable interval.
package main

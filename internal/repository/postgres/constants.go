package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errProjectNotFound       = "project not found"
	errProjectNotInSelection = "project is no longer in selection"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateProjectFmt    = "failed to create project: %w"
	errFailedDeleteProjectFmt    = "failed to delete project: %w"
	errFailedGetProjectFmt       = "failed to get project: %w"
	errFailedListProjectsFmt     = "failed to list projects: %w"
	errFailedScanProjectFmt      = "failed to scan project: %w"
	errFailedEncodeDocumentFmt   = "failed to encode project document: %w"
	errFailedDecodeDocumentFmt   = "failed to decode project document: %w"
	errFailedPersistSelectionFmt = "failed to persist selections: %w"
	errFailedPersistExtrasFmt    = "failed to persist extra retouches: %w"
	errFailedAppendAssetsFmt     = "failed to append assets: %w"
	errFailedDeliverFinalsFmt    = "failed to deliver final assets: %w"
)

var (
	errFailedAppendAssets         = func(err error) error { return fmt.Errorf(errFailedAppendAssetsFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateProject        = func(err error) error { return fmt.Errorf(errFailedCreateProjectFmt, err) }
	errFailedDecodeDocument       = func(err error) error { return fmt.Errorf(errFailedDecodeDocumentFmt, err) }
	errFailedDeleteProject        = func(err error) error { return fmt.Errorf(errFailedDeleteProjectFmt, err) }
	errFailedDeliverFinals        = func(err error) error { return fmt.Errorf(errFailedDeliverFinalsFmt, err) }
	errFailedEncodeDocument       = func(err error) error { return fmt.Errorf(errFailedEncodeDocumentFmt, err) }
	errFailedGetProject           = func(err error) error { return fmt.Errorf(errFailedGetProjectFmt, err) }
	errFailedListProjects         = func(err error) error { return fmt.Errorf(errFailedListProjectsFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPersistExtras        = func(err error) error { return fmt.Errorf(errFailedPersistExtrasFmt, err) }
	errFailedPersistSelection     = func(err error) error { return fmt.Errorf(errFailedPersistSelectionFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanProject          = func(err error) error { return fmt.Errorf(errFailedScanProjectFmt, err) }
)

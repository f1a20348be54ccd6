// Package remote selects the RemoteStore backend for a source folder.
package remote

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/docsync/internal/adapters/driven/remote/gdrive"
	"github.com/custodia-labs/docsync/internal/adapters/driven/remote/sharepoint"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Environment variables carrying the SharePoint app registration.
const (
	EnvSharePointTenantID     = "DOCSYNC_SHAREPOINT_TENANT_ID"
	EnvSharePointClientID     = "DOCSYNC_SHAREPOINT_CLIENT_ID"
	EnvSharePointClientSecret = "DOCSYNC_SHAREPOINT_CLIENT_SECRET"
)

// Ensure Factory implements the interface.
var _ driven.RemoteStoreFactory = (*Factory)(nil)

// Factory builds remote stores per source folder by its type. Stores
// are created fresh per sync pass and closed by the orchestrator.
type Factory struct {
	// SharePointSiteURL is the site every sharepoint folder lives on.
	SharePointSiteURL string

	// GDriveCredentialsFile is the service account key for gdrive
	// folders.
	GDriveCredentialsFile string
}

// Create returns a store for the folder's backend.
func (f *Factory) Create(ctx context.Context, folder domain.SourceFolder) (driven.RemoteStore, error) {
	switch folder.Type {
	case "sharepoint":
		return sharepoint.NewStore(ctx, sharepoint.Config{
			SiteURL:      f.SharePointSiteURL,
			TenantID:     os.Getenv(EnvSharePointTenantID),
			ClientID:     os.Getenv(EnvSharePointClientID),
			ClientSecret: os.Getenv(EnvSharePointClientSecret),
		})
	case "gdrive":
		return gdrive.NewStore(ctx, gdrive.Config{
			CredentialsFile: f.GDriveCredentialsFile,
		})
	default:
		return nil, fmt.Errorf("%w: remote store type %q", domain.ErrInvalidInput, folder.Type)
	}
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveArchiver uploads exported PDFs to a Google Drive folder
type DriveArchiver struct {
	client   *drive.Service
	folderID string
}

// Ensure DriveArchiver implements DocumentArchiver
var _ DocumentArchiver = (*DriveArchiver)(nil)

// NewDriveArchiver creates a DriveArchiver writing into folderID.
// credentialsPath should be the path to the Service Account JSON file
func NewDriveArchiver(ctx context.Context, credentialsPath, folderID string) (*DriveArchiver, error) {
	// option.WithCredentialsFile automatically handles Service Account authentication
	client, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveArchiver{client: client, folderID: folderID}, nil
}

// Archive uploads content as filename into the archive folder
func (a *DriveArchiver) Archive(ctx context.Context, filename string, content []byte) error {
	file := &drive.File{
		Name:     filename,
		MimeType: "application/pdf",
		Parents:  []string{a.folderID},
	}
	created, err := a.client.Files.Create(file).
		Media(bytes.NewReader(content)).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	log.Printf("✓ Archived %s to Drive (id=%s)", created.Name, created.Id)
	return nil
}

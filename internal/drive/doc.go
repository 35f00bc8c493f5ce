// Package drive provides a client for reading Google Drive file metadata.
//
// A container-bound script project records the ID of the Drive file it is
// attached to (usually a spreadsheet). This package resolves that ID to the
// file's name, type and link.
//
// OAuth Authentication:
// This package uses the token from the google package. Only the
// drive.metadata.readonly scope is needed.
//
// Example usage:
//
//	client, err := drive.NewClientWithProvider(ctx, credentials)
//	if err != nil {
//	    return err
//	}
//
//	file, err := client.GetFile(ctx, project.ParentID)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(file.Name, file.MimeType, file.WebViewLink)
package drive

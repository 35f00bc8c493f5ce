// Package script provides a client for the Google Apps Script API.
//
// The API has no per-file write: a project's content is replaced as a whole.
// UpsertFile therefore reads the full file list, replaces or appends one entry
// and submits the list again. There is no version check, so a concurrent
// editor's changes made between the read and the write are lost.
//
// Example usage:
//
//	client, err := script.NewClientWithProvider(ctx, scriptID, credentials)
//	if err != nil {
//	    return err
//	}
//
//	result, err := client.UpsertFile(ctx, "Config.gs", source)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Name, result.Replaced)
package script

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/filex"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
)

const timeLayout = "2006-01-02 15:04:05"

// exportBaseName is the file name used for activity exports when no
// destination is given.
const exportBaseName = "activity_log"

var issueTypes = []string{"Login Issue", "Upload Issue", "Bug", "Other"}

// Account prints the profile, storage usage and recent activity of the
// logged-in user.
func (a *App) Account(ctx context.Context) error {
	acc, err := a.client.Account(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "User ID: %s\n", acc.UserID)
	fmt.Fprintf(a.out, "Email:   %s\n", acc.Email)
	fmt.Fprintf(a.out, "Files:   %d\n", acc.FileCount)
	fmt.Fprintf(a.out, "Storage: %.2f MB of %.0f MB (%.1f%%)\n", acc.UsedMB, acc.LimitMB, acc.UsedPercent)

	fmt.Fprintln(a.out, "Recent activity:")
	if len(acc.Recent) == 0 {
		fmt.Fprintln(a.out, "  none")
	}
	for _, e := range acc.Recent {
		fmt.Fprintf(a.out, "  %s | %s | %s\n", e.TS.Local().Format(timeLayout), e.Action, e.Details)
	}
	return nil
}

// Export downloads the activity log. Arguments, in any order: "pdf" or
// "csv" (default pdf), "all" for every user (admin only) and a destination
// path.
func (a *App) Export(ctx context.Context, args []string) error {
	req := &pb.ExportActivityRequest{Format: pb.FormatDocument}
	dest := ""
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "pdf":
			req.Format = pb.FormatDocument
		case "csv":
			req.Format = pb.FormatCSV
		case "all":
			req.All = true
		default:
			dest = arg
		}
	}

	resp, err := a.client.ExportActivity(ctx, req)
	if err != nil {
		return err
	}

	name := exportBaseName + "." + resp.Extension
	if dest != "" && resp.Substituted && filepath.Ext(dest) != "" {
		dest = strings.TrimSuffix(dest, filepath.Ext(dest)) + "." + resp.Extension
	}
	path, err := a.destination(dest, name)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, resp.Content, 0o600); err != nil {
		return err
	}

	if resp.Substituted {
		fmt.Fprintln(a.out, "Document export is not available, activity exported as CSV instead.")
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

// Support files a support request. It works without logging in.
func (a *App) Support(ctx context.Context) error {
	var b strings.Builder
	b.WriteString("Issue type:")
	for i, t := range issueTypes {
		fmt.Fprintf(&b, " (%d) %s", i+1, t)
	}
	choice, err := getSimpleText(a.reader, b.String(), a.out)
	if err != nil {
		return err
	}
	issue, err := issueType(choice)
	if err != nil {
		return err
	}

	message, err := getMultiline(a.reader, "Describe your issue:", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty: %w", common.ErrorInvalidInput)
	}

	if err := a.client.Support(ctx, issue, message); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Support request sent.")
	return nil
}

// issueType accepts either the number shown in the menu or the type name.
func issueType(choice string) (string, error) {
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(issueTypes) {
		return issueTypes[n-1], nil
	}
	for _, t := range issueTypes {
		if strings.EqualFold(t, choice) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown issue type %q: %w", choice, common.ErrorInvalidInput)
}

// Admin lists every user that owns files, or the files of owner.
func (a *App) Admin(ctx context.Context, owner string) error {
	if owner == "" {
		owners, err := a.client.AdminOwners(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Users with files: %d\n", len(owners))
		for _, o := range owners {
			fmt.Fprintf(a.out, "  %s\n", o)
		}
		return nil
	}

	files, err := a.client.AdminFiles(ctx, owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Files of %s: %d\n", owner, len(files))
	for _, f := range files {
		fmt.Fprintf(a.out, "  %s\n", f)
	}
	return nil
}

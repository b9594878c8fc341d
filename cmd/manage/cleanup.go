package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"riffmates/internal/config"
	"riffmates/internal/media"
	"riffmates/internal/store"
)

const pathListLimit = 50

type cleanupOptions struct {
	delete   bool
	noInput  bool
	allMedia bool
}

func newCleanupPicturesCmd() *cobra.Command {
	var opts cleanupOptions

	cmd := &cobra.Command{
		Use:   "cleanup-pictures",
		Short: "Remove orphaned musician and venue picture files from MEDIA_ROOT",
		Long: "Scans MEDIA_ROOT for picture files no musician or venue references.\n" +
			"Nothing is deleted unless --delete is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mediaCfg := config.LoadMedia()
			if mediaCfg.Root == "" {
				return fmt.Errorf("%w: MEDIA_ROOT is not configured", media.ErrNoRoot)
			}

			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			referenced, err := store.New(db).ReferencedPictures(ctx)
			if err != nil {
				return err
			}

			var dirs []string
			if !opts.allMedia {
				dirs = media.UploadDirs
			}
			report, err := media.Reconcile(mediaCfg.Root, dirs, referenced)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReport(out, report)

			if len(report.Orphans) == 0 {
				fmt.Fprintln(out, "No orphaned files found.")
				return nil
			}
			if !opts.delete {
				fmt.Fprintln(out, "\nDRY-RUN complete. No files were deleted.")
				fmt.Fprintln(out, "Run again with --delete to remove the files shown above.")
				return nil
			}
			if !opts.noInput && !confirmDelete(cmd.InOrStdin(), out, len(report.Orphans)) {
				fmt.Fprintln(out, "Aborted by user.")
				return nil
			}

			res := media.Cleanup(ctx, report, log.Logger)
			for p, err := range res.Failed {
				fmt.Fprintf(out, "Failed to delete %s: %v\n", p, err)
			}
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				for _, p := range res.Deleted {
					fmt.Fprintf(out, "Deleted: %s\n", report.Rel(p))
				}
			}
			fmt.Fprintf(out, "\nDeleted %d orphaned file(s).\n", len(res.Deleted))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.delete, "delete", false, "actually delete orphaned files (default is dry-run)")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "do not prompt for confirmation when using --delete")
	cmd.Flags().BoolVar(&opts.allMedia, "all-media", false, "scan all of MEDIA_ROOT, not just the upload directories")
	return cmd
}

func printReport(w io.Writer, r *media.Report) {
	fmt.Fprintln(w, "Picture cleanup report")
	fmt.Fprintf(w, " MEDIA_ROOT: %s\n", r.Root)
	if r.ScannedAll() {
		fmt.Fprintln(w, " Scanning:  (entire MEDIA_ROOT)")
	} else {
		fmt.Fprintf(w, " Scanning:  %s\n", strings.Join(r.Scanned, ", "))
	}
	fmt.Fprintf(w, " Referenced files: %d\n", len(r.Referenced))
	fmt.Fprintf(w, " Files on disk:    %d\n", len(r.OnDisk))
	fmt.Fprintf(w, " Missing files:     %d\n", len(r.Missing))
	printPaths(w, "Missing (DB references with no file):", r.Missing, r)
	fmt.Fprintf(w, " Orphans to remove: %d\n", len(r.Orphans))
	printPaths(w, "Orphans (exist on disk, not in DB):", r.Orphans, r)
}

func printPaths(w io.Writer, title string, paths []string, r *media.Report) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for i, p := range paths {
		if i >= pathListLimit {
			fmt.Fprintf(w, "... and %d more\n", len(paths)-pathListLimit)
			break
		}
		fmt.Fprintf(w, "  %s\n", r.Rel(p))
	}
}

// confirmDelete asks for an explicit "yes" on in.
func confirmDelete(in io.Reader, out io.Writer, n int) bool {
	fmt.Fprintf(out, "\nAbout to DELETE %d file(s). This cannot be undone.\nType 'yes' to continue: ", n)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "yes"
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"docvet/internal/domain"
	"docvet/internal/packager"
	s3storage "docvet/internal/storage/s3"
)

type packageOptions struct {
	publish bool
}

func newPackageCmd(root *rootOptions) *cobra.Command {
	o := &packageOptions{}

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build the Teams app package archive",
		Long: `Checks that the manifest, agent, plugin, and OpenAPI files exist, then
zips them together with the icons and Adaptive Card templates. With --publish
the archive is uploaded to the configured S3 bucket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, root)
		},
	}

	cmd.Flags().BoolVar(&o.publish, "publish", false, "upload the archive to S3 after building it")
	return cmd
}

func (o *packageOptions) run(cmd *cobra.Command, root *rootOptions) error {
	cfg := root.cfg
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	p := packager.New(appFs, cfg.Package)

	fmt.Fprintln(out, "📦 Packaging IT Helpdesk Agent...")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "✓ Checking required files...")

	found, err := p.Check()
	for _, f := range found {
		fmt.Fprintf(out, "  ✓ Found: %s\n", f)
	}
	var missing *domain.MissingFilesError
	if errors.As(err, &missing) {
		for _, f := range missing.Files {
			fmt.Fprintf(errOut, "  ✗ Missing: %s\n", f)
		}
		fmt.Fprintln(errOut)
		fmt.Fprintln(errOut, "❌ Some required files are missing. Cannot create package.")
		return silentFail()
	}

	res, err := p.Build()
	if err != nil {
		return fail(fmt.Errorf("creating package: %w", err))
	}
	printIconWarning(errOut, res.MissingIcons)
	if res.CreatedDir {
		fmt.Fprintf(out, "\n✓ Created %s directory\n", cfg.Package.OutputDir)
	}

	fmt.Fprintln(out, "\n📦 Creating package...")
	for _, e := range res.Entries {
		fmt.Fprintf(out, "  adding: %s\n", e)
	}
	fmt.Fprintln(out, "\n✅ Package created successfully!")
	fmt.Fprintf(out, "\n📦 Package location: %s\n", filepath.ToSlash(res.Archive))

	if o.publish {
		store, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fail(err)
		}
		pub, err := p.Publish(cmd.Context(), store, cfg.S3, res)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(out, "\n☁️  Published to s3://%s/%s\n", pub.Bucket, pub.Key)
		if pub.URL != "" {
			fmt.Fprintf(out, "   Download link (7 days): %s\n", pub.URL)
		}
	}

	fmt.Fprintln(out, "\n📋 Next steps:")
	fmt.Fprintln(out, "   1. Update environment variables in .env")
	fmt.Fprintln(out, "   2. Configure OAuth in ServiceNow")
	fmt.Fprintln(out, "   3. Upload package to Teams admin center")
	fmt.Fprintln(out, "   4. Configure OAuth in M365 Plugin Vault")
	fmt.Fprintln(out, "\n   See docs/SETUP.md for detailed instructions.")
	return nil
}

func printIconWarning(w io.Writer, missing []string) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintln(w, "\n⚠️  Warning: Icon files not found!")
	fmt.Fprintln(w, "  Please add the PNG icons before uploading:")
	for _, icon := range missing {
		fmt.Fprintf(w, "    - %s\n", icon)
	}
	fmt.Fprintln(w, "\n  Package will be created without icons.")
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/avatar-faces/internal/config"
	"github.com/kozaktomas/avatar-faces/internal/constants"
	"github.com/kozaktomas/avatar-faces/internal/gallery"
	"github.com/kozaktomas/avatar-faces/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the gallery to a standalone HTML page",
	Long: `Fetch the top Stack Overflow profiles, detect faces in their avatars and
write the gallery as a standalone HTML page.

Examples:
  # Print the page to stdout
  avatar-faces generate

  # Write to a file with 4 avatars processed in parallel
  avatar-faces generate --out gallery.html --concurrency 4

  # Keep the raw API response for fixtures
  avatar-faces generate --out gallery.html --capture ./captures`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("out", "", "Output file (default stdout)")
	generateCmd.Flags().Int("concurrency", 0, "Avatars processed in parallel (default from CONCURRENCY or 1)")
	generateCmd.Flags().Int("max-profiles", 0, "Number of profiles to show (default from MAX_PROFILES or 10)")
	generateCmd.Flags().Float64("confidence-adjustment", 0, "Detector threshold adjustment (default from DETECTOR_CONFIDENCE_ADJUSTMENT or -0.5)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if n := mustGetInt(cmd, "concurrency"); n > 0 {
		cfg.Pipeline.Concurrency = n
	}
	if n := mustGetInt(cmd, "max-profiles"); n > 0 {
		cfg.StackExchange.MaxProfiles = n
	}
	if cmd.Flags().Changed("confidence-adjustment") {
		cfg.Detector.ConfidenceAdjustment = mustGetFloat64(cmd, "confidence-adjustment")
	}
	outPath := mustGetString(cmd, "out")

	bar := progressbar.NewOptions(cfg.StackExchange.MaxProfiles,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Annotating avatars"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	p, err := pipeline.FromConfig(cfg, pipeline.BuildOptions{
		CaptureDir: captureDir,
		OnProgress: func(info pipeline.ProgressInfo) {
			// The listing may hold fewer profiles than requested.
			if info.Current == 1 {
				bar.ChangeMax(info.Total)
			}
			bar.Add(1)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set up pipeline: %w", err)
	}

	result, err := p.Generate(context.Background())
	bar.Finish()
	if err != nil {
		return err
	}

	renderer, err := gallery.NewRenderer()
	if err != nil {
		return err
	}
	page, err := renderer.Page(constants.GalleryTitle, result.HTML)
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), page)
	} else if err := os.WriteFile(outPath, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	if result.ListingError != nil {
		fmt.Fprintf(os.Stderr, "Profile listing failed: %v\n", result.ListingError)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Profiles: %d, faces found: %d, image errors: %d\n",
		result.Profiles, result.FacesFound, result.ImageErrors)
	return nil
}

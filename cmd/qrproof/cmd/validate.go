package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qrproof/qrproof/internal/common"
	"github.com/qrproof/qrproof/internal/qr"
	"github.com/qrproof/qrproof/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <image>",
	Short: "Score a QR code image for scannability",
	Long: `Validate decodes the given QR code image and scores how robustly it
scans. The image is decoded with two independent engines, escalating
through preprocessing strategies when needed, then stress tested against
downscaling, blur, and contrast reduction.

An image without a readable QR code is a normal outcome (score 0,
decodable false), not an error. Only a broken or unreadable image file
fails the command.

Examples:
  qrproof validate qr.png
  qrproof validate qr.png --score-only
  qrproof validate qr.png --fast --json
  qrproof validate qr.png --decode-only`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolP("score-only", "s", false, "print only the numeric score")
	validateCmd.Flags().BoolP("decode-only", "d", false, "decode and print content, skip the stress battery")
	validateCmd.Flags().BoolP("fast", "f", false, "reduced stress profile (original, 50% downscale, light blur)")
	validateCmd.Flags().BoolP("json", "j", false, "JSON output")
	validateCmd.Flags().BoolP("timing", "t", false, "print per-stage timing to stderr")
	validateCmd.Flags().BoolP("quiet", "q", false, "suppress everything except the essential result")
	validateCmd.Flags().Int("workers", 0, "decode search workers (0 = all CPUs)")
	validateCmd.Flags().Int("trials", 0, "random exploration trials (0 = default)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	scoreOnly, _ := cmd.Flags().GetBool("score-only")
	decodeOnly, _ := cmd.Flags().GetBool("decode-only")
	fast, _ := cmd.Flags().GetBool("fast")
	asJSON, _ := cmd.Flags().GetBool("json")
	timing, _ := cmd.Flags().GetBool("timing")
	quiet, _ := cmd.Flags().GetBool("quiet")
	workers, _ := cmd.Flags().GetInt("workers")
	trials, _ := cmd.Flags().GetInt("trials")

	cfg := GetConfig()
	if workers == 0 {
		workers = cfg.Search.MaxWorkers
	}
	if trials == 0 {
		trials = cfg.Search.Tier4Trials
	}
	if cfg.Output.Format == "json" {
		asJSON = true
	}

	v := validator.New(validator.Options{Workers: workers, Tier4Trials: trials})
	ctx := context.Background()

	var timer *common.StageTimer
	if timing {
		timer = common.NewStageTimer()
	}

	if decodeOnly {
		return runDecodeOnly(cmd, v, path, asJSON, quiet, timer)
	}

	result, err := v.ValidateFile(ctx, path, fast)
	if timer != nil {
		timer.Mark("validate")
		fmt.Fprint(cmd.ErrOrStderr(), timer.Report())
	}
	if err != nil {
		return err
	}

	switch {
	case asJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	case scoreOnly:
		fmt.Fprintln(cmd.OutOrStdout(), result.Score)
	default:
		printValidationResult(cmd, result, quiet)
	}

	return nil
}

func runDecodeOnly(cmd *cobra.Command, v *validator.Validator, path string, asJSON, quiet bool, timer *common.StageTimer) error {
	out, err := v.DecodeFile(context.Background(), path)
	if timer != nil {
		timer.Mark("decode")
		fmt.Fprint(cmd.ErrOrStderr(), timer.Report())
	}
	if err != nil {
		if errors.Is(err, qr.ErrDecodeFailed) {
			// Not decodable is a reported outcome, not a command failure.
			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), `{"decodable": false}`)
			} else if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "No QR code found")
			}
			return nil
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.Content)
	if !quiet && out.Metadata != nil {
		printMetadata(cmd, out.Metadata)
	}
	return nil
}

func printValidationResult(cmd *cobra.Command, result *qr.ValidationResult, quiet bool) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Score: %d/100\n", result.Score)
	if !result.Decodable {
		fmt.Fprintln(w, "Decodable: no")
		return
	}
	fmt.Fprintln(w, "Decodable: yes")
	fmt.Fprintf(w, "Content: %s\n", result.Content)

	if quiet {
		return
	}

	if result.Metadata != nil {
		printMetadata(cmd, result.Metadata)
	}

	fmt.Fprintln(w, "Stress results:")
	fmt.Fprintf(w, "  original:       %s\n", passFail(result.Stress.Original))
	fmt.Fprintf(w, "  downscale 50%%:  %s\n", passFail(result.Stress.Downscale50))
	fmt.Fprintf(w, "  downscale 25%%:  %s\n", passFail(result.Stress.Downscale25))
	fmt.Fprintf(w, "  light blur:     %s\n", passFail(result.Stress.BlurLight))
	fmt.Fprintf(w, "  medium blur:    %s\n", passFail(result.Stress.BlurMedium))
	fmt.Fprintf(w, "  low contrast:   %s\n", passFail(result.Stress.LowContrast))
}

func printMetadata(cmd *cobra.Command, meta *qr.Metadata) {
	w := cmd.OutOrStdout()
	if meta.Version > 0 {
		fmt.Fprintf(w, "Version: %d (%dx%d modules)\n", meta.Version, meta.Modules, meta.Modules)
	}
	fmt.Fprintf(w, "Error correction: %s\n", meta.ErrorCorrection)
	if len(meta.DecodersSuccess) > 0 {
		fmt.Fprintf(w, "Decoders: %s\n", strings.Join(meta.DecodersSuccess, ", "))
	}
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

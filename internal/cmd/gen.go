package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yuzeguitarist/qrdrop/internal/config"
	"github.com/yuzeguitarist/qrdrop/internal/metrics"
	"github.com/yuzeguitarist/qrdrop/internal/qr"
	"github.com/yuzeguitarist/qrdrop/internal/service"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate (or reuse) a QR code without running the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")
		out, _ := cmd.Flags().GetString("out")
		size, _ := cmd.Flags().GetInt("size")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		w, err := wire(cmd.Context(), cfg, metrics.Noop{})
		if err != nil {
			return err
		}
		defer w.close()

		base := cfg.BaseURL
		if base == "" {
			base = config.DefaultBaseURL
		}
		req := service.Request{Data: data, Name: name, BaseURL: base}
		if file != "" {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			req.File = &service.File{Filename: filepath.Base(file), Body: f}
		}

		res, err := w.service.Generate(cmd.Context(), req)
		if err != nil {
			return err
		}
		verb := "Reused"
		if res.Created {
			verb = "Generated"
		}
		fmt.Fprintln(cmd.OutOrStdout(), verb+":", filepath.Join(w.paths.QRDir, res.Filename))
		fmt.Fprintln(cmd.OutOrStdout(), "URL:", res.URL)

		if out != "" {
			b, err := qr.PNG(res.Data, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote:", filepath.Clean(out))
		}
		return nil
	},
}

func init() {
	genCmd.Flags().String("data", "", "text to encode")
	genCmd.Flags().String("file", "", "file to upload and link to (overrides --data)")
	genCmd.Flags().String("name", "", "image name without extension (default qr_<n>)")
	genCmd.Flags().String("base-url", "", "public base URL used in generated links")
	genCmd.Flags().String("out", "", "also write a PNG copy to this path")
	genCmd.Flags().Int("size", 256, "edge length in pixels of the --out copy")
}
